package cmd

import (
	"os"

	"github.com/ethpandaops/assetdiff/internal/actions"
	"github.com/spf13/cobra"
)

var (
	runFlags auditFlags
	runClean bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Audit the baseline and every asset group",
	Long: `Runs Lighthouse against the configured URL once per planned test and
repetition, blocking each asset group's URL patterns, and stores the raw
reports under reports/<report-type>/<label>/.

Examples:
  assetdiff run --url https://example.com
  assetdiff run -c site.yaml --runs 5 --report-type individual,aggregate
  assetdiff run --clean`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := runFlags.options()
		opts.Clean = runClean

		return actions.Run(cmd.Context(), commandLogger(runFlags.verbose), os.Stdout, opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runFlags.register(runCmd, true)
	runCmd.Flags().BoolVar(&runClean, "clean", false, "Remove the reports directory before running")
}
