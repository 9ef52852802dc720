package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethpandaops/assetdiff/internal/actions"
	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/ethpandaops/assetdiff/pkg/interactive"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch interactive mode",
	Long:  `Launches the interactive menu for planning, running and summarizing audits.`,
	Run: func(_ *cobra.Command, _ []string) {
		RunInteractive()
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// RunInteractive shows the main menu until the user exits.
func RunInteractive() {
	fmt.Println("assetdiff - Interactive Mode")
	fmt.Println("============================")
	fmt.Println()

	for {
		options := []interactive.MenuOption{
			{
				Name:        "Plan",
				Description: "List the runs the configuration would execute",
				Action: func() error {
					report(actions.Plan(Logger, os.Stdout, actions.Options{}))
					interactive.PauseForEnter(os.Stdout)
					return nil
				},
			},
			{
				Name:        "Run",
				Description: "Audit the baseline and every asset group",
				Action:      interactiveRun,
			},
			{
				Name:        "Summarize",
				Description: "Aggregate stored results into summary.html",
				Action: func() error {
					report(actions.Summarize(Logger, os.Stdout, actions.Options{}))
					interactive.PauseForEnter(os.Stdout)
					return nil
				},
			},
			{
				Name:        "Export",
				Description: "Send summarized results to ClickHouse",
				Action: func() error {
					report(actions.Export(context.Background(), Logger, os.Stdout, actions.Options{}))
					interactive.PauseForEnter(os.Stdout)
					return nil
				},
			},
			{
				Name:        "Show Config",
				Description: "Display environment and audit configuration",
				Action: func() error {
					report(actions.ShowConfig(os.Stdout, actions.Options{}))
					interactive.PauseForEnter(os.Stdout)
					return nil
				},
			},
		}

		if err := interactive.ShowMainMenu(options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				fmt.Println("Goodbye!")
				return
			}
			Logger.Fatal(err)
		}

		fmt.Println()
	}
}

func interactiveRun() error {
	defer interactive.PauseForEnter(os.Stdout)

	settings, err := actions.LoadSettings(actions.Options{})
	if err != nil {
		report(err)
		return nil
	}

	url, err := interactive.AskURL(settings.Audit.URL)
	if err != nil {
		report(err)
		return nil
	}

	reportTypes, err := interactive.SelectReportTypes(config.ReportTypes)
	if err != nil {
		report(err)
		return nil
	}

	opts := actions.Options{URL: url, ReportTypes: reportTypes}
	opts.Clean = interactive.Confirm("Remove previous reports before running?")

	if err := actions.Plan(Logger, os.Stdout, opts); err != nil {
		report(err)
		return nil
	}

	if !interactive.Confirm("Start the audits?") {
		fmt.Println("Run canceled.")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report(actions.Run(ctx, Logger, os.Stdout, opts))

	return nil
}

func report(err error) {
	if err != nil {
		fmt.Printf("\n❌ Error: %v\n", err)
	}
}
