package cmd

import (
	"fmt"
	"os"

	"github.com/ethpandaops/assetdiff/internal/actions"
	"github.com/spf13/cobra"
)

var showConfigFlags auditFlags

var showConfigCmd = &cobra.Command{
	Use:   "show-config",
	Short: "Display current configuration",
	Long:  `Shows the environment configuration and the resolved audit configuration.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := actions.ShowConfig(os.Stdout, showConfigFlags.options()); err != nil {
			return fmt.Errorf("failed to show config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showConfigCmd)
	showConfigFlags.register(showConfigCmd, true)
}
