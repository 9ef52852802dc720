package actions

import (
	"context"
	"fmt"
	"io"

	"github.com/ethpandaops/assetdiff/internal/batch"
	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/ethpandaops/assetdiff/internal/lighthouse"
	"github.com/ethpandaops/assetdiff/internal/metrics"
	"github.com/ethpandaops/assetdiff/internal/plan"
	"github.com/ethpandaops/assetdiff/internal/report/table"
	"github.com/ethpandaops/assetdiff/internal/store"
	"github.com/sirupsen/logrus"
)

// Run executes every planned audit and prints the run results. The results
// table is printed even when the batch fails part way.
func Run(ctx context.Context, log logrus.FieldLogger, out io.Writer, opts Options) error {
	settings, err := LoadSettings(opts)
	if err != nil {
		return err
	}

	if err := settings.Audit.Validate(); err != nil {
		return err
	}

	auditor := lighthouse.NewAuditor(log, settings.Audit.Lighthouse)

	return runAudits(ctx, log, out, settings.App.ReportsDir, settings.Audit, auditor, opts.Clean)
}

func runAudits(
	ctx context.Context,
	log logrus.FieldLogger,
	out io.Writer,
	reportsDir string,
	cfg config.Config,
	auditor lighthouse.Auditor,
	clean bool,
) error {
	if clean {
		log.WithField("dir", reportsDir).Info("removing previous reports")

		if err := store.Clean(reportsDir); err != nil {
			return err
		}
	}

	collector := metrics.NewCollector(log)
	if err := collector.Start(ctx); err != nil {
		return fmt.Errorf("failed to start metrics collector: %w", err)
	}

	defer func() {
		if err := collector.Stop(); err != nil {
			log.WithError(err).Warn("failed to stop metrics collector")
		}
	}()

	runner := batch.NewRunner(log, auditor, collector, reportsDir)
	runErr := runner.Execute(ctx, cfg.URL, cfg.Runs, plan.Build(log, cfg))

	renderer := table.NewRenderer(log)
	fmt.Fprintln(out, table.NewResultsFormatter(log, renderer).Format(collector.GetRunMetrics()))
	fmt.Fprintln(out, table.NewSummaryFormatter(log, renderer).Format(collector.GetSummary()))

	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(out, "\nResults written to %s. Run `assetdiff summarize` to build the report.\n", reportsDir)

	return nil
}
