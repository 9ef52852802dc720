package cmd

import (
	"os"

	"github.com/ethpandaops/assetdiff/internal/actions"
	"github.com/spf13/cobra"
)

var summarizeFlags auditFlags

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Aggregate stored results into summary.html",
	Long: `Averages every metric of every test label, compares each label against
the baseline and writes reports/<report-type>/summary.html and averages.json.

Without --report-type every report type found under the reports directory is
summarized.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return actions.Summarize(commandLogger(summarizeFlags.verbose), os.Stdout, summarizeFlags.options())
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeFlags.register(summarizeCmd, false)
}
