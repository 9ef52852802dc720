package table

import (
	"fmt"
	"math"

	"github.com/ethpandaops/assetdiff/internal/format"
	"github.com/ethpandaops/assetdiff/internal/metrics"
	"github.com/sirupsen/logrus"
)

const maxErrorLength = 60

// ResultsFormatter formats per-run audit results as a table.
type ResultsFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewResultsFormatter creates a new results table formatter.
func NewResultsFormatter(log logrus.FieldLogger, renderer Renderer) *ResultsFormatter {
	return &ResultsFormatter{
		log:      log.WithField("component", "table.results_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format converts run metrics into a formatted table string.
func (f *ResultsFormatter) Format(runMetrics []metrics.RunMetric) string {
	if len(runMetrics) == 0 {
		return "No audits executed"
	}

	var (
		headers = []string{"Report", "Test", "Run", "Status", "Performance", "Duration", "Details"}
		rows    = make([][]string, 0, len(runMetrics))
	)

	for _, metric := range runMetrics {
		var (
			score   = f.colors.Muted("-")
			details string
		)

		if metric.Passed {
			score = format.Score(int(math.Round(metric.PerformanceScore)))
		} else if metric.ErrorMessage != "" {
			errMsg := metric.ErrorMessage
			if len(errMsg) > maxErrorLength {
				errMsg = errMsg[:maxErrorLength-3] + "..."
			}

			details = f.colors.Muted(errMsg)
		}

		rows = append(rows, []string{
			metric.ReportType,
			metric.Label,
			fmt.Sprintf("%d", metric.Run),
			f.colors.FormatStatus(metric.Passed),
			score,
			format.Duration(metric.Duration),
			details,
		})
	}

	return "\n" + f.colors.Header("▸ Audit Runs") + "\n\n" + f.renderer.RenderToString(headers, rows)
}
