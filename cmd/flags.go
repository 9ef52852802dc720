package cmd

import (
	"github.com/ethpandaops/assetdiff/internal/actions"
	"github.com/spf13/cobra"
)

// auditFlags are the flags shared by commands that read the audit
// configuration.
type auditFlags struct {
	configFile  string
	url         string
	runs        int
	reportTypes []string
	verbose     bool
}

func (f *auditFlags) register(cmd *cobra.Command, withRunFlags bool) {
	cmd.Flags().StringVarP(&f.configFile, "config", "c", "", "Audit configuration file (default assetdiff.yaml)")
	cmd.Flags().StringSliceVar(&f.reportTypes, "report-type", nil, "Report types to process (individual, aggregate)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable verbose logging")

	if withRunFlags {
		cmd.Flags().StringVarP(&f.url, "url", "u", "", "URL to audit (overrides config)")
		cmd.Flags().IntVarP(&f.runs, "runs", "n", 0, "Audits per test (overrides config)")
	}
}

func (f *auditFlags) options() actions.Options {
	return actions.Options{
		ConfigFile:  f.configFile,
		URL:         f.url,
		Runs:        f.runs,
		ReportTypes: f.reportTypes,
	}
}
