package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/ethpandaops/assetdiff/internal/history"
	"github.com/ethpandaops/assetdiff/internal/store"
	"github.com/ethpandaops/assetdiff/internal/summary"
	"github.com/sirupsen/logrus"
)

// Export sends the averages written by Summarize, with their deltas, to
// ClickHouse.
func Export(ctx context.Context, log logrus.FieldLogger, out io.Writer, opts Options) error {
	settings, err := LoadSettings(opts)
	if err != nil {
		return err
	}

	reportTypes, err := selectReportTypes(settings, opts)
	if err != nil {
		return err
	}

	exporter := history.NewExporter(log, settings.App, history.NewMigrationRunner(log))
	if err := exporter.Start(ctx); err != nil {
		return fmt.Errorf("failed to start exporter: %w", err)
	}

	defer func() {
		if err := exporter.Stop(); err != nil {
			log.WithError(err).Warn("failed to stop exporter")
		}
	}()

	return exportReportTypes(ctx, log, out, settings, reportTypes, exporter, time.Now())
}

func exportReportTypes(
	ctx context.Context,
	log logrus.FieldLogger,
	out io.Writer,
	settings *Settings,
	reportTypes []string,
	exporter history.Exporter,
	now time.Time,
) error {
	for _, reportType := range reportTypes {
		s := store.NewFSStore(log, settings.App.ReportsDir, reportType)

		averages, err := readAverages(s)
		if err != nil {
			return err
		}

		deltas := summary.NewClassifier(log).Classify(averages, settings.Audit.KeyAudits)
		snapshot := history.BuildSnapshot(settings.Audit.URL, reportType, averages, settings.Audit.KeyAudits, deltas, now)

		if err := exporter.Export(ctx, snapshot); err != nil {
			return fmt.Errorf("exporting %s: %w", reportType, err)
		}

		fmt.Fprintf(out, "Exported %s: %d averages, %d deltas\n", reportType, len(snapshot.Averages), len(snapshot.Deltas))
	}

	return nil
}

func readAverages(s store.Store) (*summary.Table, error) {
	data, err := s.ReadArtifact(config.AveragesFile)
	if err != nil {
		return nil, fmt.Errorf("%w (run summarize first)", err)
	}

	averages := summary.NewTable()
	if err := json.Unmarshal(data, averages); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", s.ArtifactPath(config.AveragesFile), err)
	}

	return averages, nil
}
