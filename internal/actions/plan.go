package actions

import (
	"fmt"
	"io"

	"github.com/ethpandaops/assetdiff/internal/plan"
	"github.com/ethpandaops/assetdiff/internal/report/table"
	"github.com/sirupsen/logrus"
)

// Plan prints the runs a batch would execute without auditing anything.
func Plan(log logrus.FieldLogger, out io.Writer, opts Options) error {
	settings, err := LoadSettings(opts)
	if err != nil {
		return err
	}

	if err := settings.Audit.Validate(); err != nil {
		return err
	}

	runs := plan.Build(log, settings.Audit)
	formatter := table.NewPlanFormatter(log, table.NewRenderer(log))

	fmt.Fprintln(out, formatter.Format(settings.Audit.URL, settings.Audit.Runs, runs))

	return nil
}
