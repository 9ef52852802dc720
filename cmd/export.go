package cmd

import (
	"os"

	"github.com/ethpandaops/assetdiff/internal/actions"
	"github.com/spf13/cobra"
)

var exportFlags auditFlags

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export summarized averages and deltas to ClickHouse",
	Long: `Reads averages.json written by summarize and inserts the averages and
their baseline deltas into ClickHouse. The database and tables are created on
first use. Connection settings come from CLICKHOUSE_* environment variables.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return actions.Export(cmd.Context(), commandLogger(exportFlags.verbose), os.Stdout, exportFlags.options())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportFlags.register(exportCmd, true)
}
