package actions

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/ethpandaops/assetdiff/internal/report"
	"github.com/ethpandaops/assetdiff/internal/report/table"
	"github.com/ethpandaops/assetdiff/internal/store"
	"github.com/ethpandaops/assetdiff/internal/summary"
	"github.com/sirupsen/logrus"
)

var (
	errNoResults         = errors.New("no results found")
	errReportTypeUnknown = errors.New("unknown report type")
)

// Summarize aggregates the stored results of every selected report type
// and writes summary.html and averages.json next to them. It works without a
// configuration file: labels are then discovered from the results directory.
func Summarize(log logrus.FieldLogger, out io.Writer, opts Options) error {
	settings, err := LoadSettings(opts)
	if err != nil {
		return err
	}

	reportTypes, err := selectReportTypes(settings, opts)
	if err != nil {
		return err
	}

	var labels []string
	if settings.FromFile {
		labels = settings.Audit.Labels()
	}

	for _, reportType := range reportTypes {
		s := store.NewFSStore(log, settings.App.ReportsDir, reportType)

		doc, err := summarizeReportType(log, s, settings.Audit, labels, time.Now())
		if err != nil {
			return fmt.Errorf("summarizing %s: %w", reportType, err)
		}

		fmt.Fprintln(out, table.NewDeltaFormatter(log, table.NewRenderer(log)).Format(doc))
		fmt.Fprintf(out, "\nReport written to %s\n", s.ArtifactPath(config.SummaryHTMLFile))
	}

	return nil
}

// selectReportTypes returns the report types named on the command line, or
// every report type directory present under the reports directory.
func selectReportTypes(settings *Settings, opts Options) ([]string, error) {
	if len(opts.ReportTypes) > 0 {
		for _, reportType := range opts.ReportTypes {
			if !slices.Contains(config.ReportTypes, reportType) {
				return nil, &config.ConfigurationError{
					Field: "report-type",
					Err:   fmt.Errorf("%w: %s", errReportTypeUnknown, reportType),
				}
			}
		}

		return opts.ReportTypes, nil
	}

	found, err := store.ReportTypes(settings.App.ReportsDir)
	if err != nil {
		return nil, fmt.Errorf("listing report types: %w", err)
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%w under %s", errNoResults, settings.App.ReportsDir)
	}

	return found, nil
}

func summarizeReportType(
	log logrus.FieldLogger,
	s store.Store,
	cfg config.Config,
	labels []string,
	now time.Time,
) (report.Document, error) {
	averages, err := summary.NewAggregator(log, s).Aggregate(labels)
	if err != nil {
		return report.Document{}, err
	}

	deltas := summary.NewClassifier(log).Classify(averages, cfg.KeyAudits)
	doc := report.Build(averages, cfg.KeyAudits, deltas, report.Meta{
		URL:         cfg.URL,
		ReportType:  s.ReportType(),
		GeneratedAt: now,
	})

	var buf bytes.Buffer
	if err := report.RenderHTML(&buf, doc); err != nil {
		return report.Document{}, err
	}

	if err := s.WriteArtifact(config.SummaryHTMLFile, buf.Bytes()); err != nil {
		return report.Document{}, err
	}

	data, err := json.MarshalIndent(averages, "", "  ")
	if err != nil {
		return report.Document{}, fmt.Errorf("encoding averages: %w", err)
	}

	if err := s.WriteArtifact(config.AveragesFile, data); err != nil {
		return report.Document{}, err
	}

	log.WithFields(logrus.Fields{
		"report_type": s.ReportType(),
		"labels":      len(averages.Labels()),
	}).Info("summary written")

	return doc, nil
}
