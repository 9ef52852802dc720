package cmd

import (
	"os"

	"github.com/ethpandaops/assetdiff/internal/actions"
	"github.com/spf13/cobra"
)

var planFlags auditFlags

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "List the runs a batch would execute",
	RunE: func(_ *cobra.Command, _ []string) error {
		return actions.Plan(commandLogger(planFlags.verbose), os.Stdout, planFlags.options())
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planFlags.register(planCmd, true)
}
