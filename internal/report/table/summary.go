package table

import (
	"fmt"

	"github.com/ethpandaops/assetdiff/internal/format"
	"github.com/ethpandaops/assetdiff/internal/metrics"
	"github.com/sirupsen/logrus"
)

// SummaryFormatter formats batch summary statistics as a table.
type SummaryFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewSummaryFormatter creates a new summary table formatter.
func NewSummaryFormatter(log logrus.FieldLogger, renderer Renderer) *SummaryFormatter {
	return &SummaryFormatter{
		log:      log.WithField("component", "table.summary_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format converts summary metrics into a formatted table string.
func (f *SummaryFormatter) Format(summary metrics.SummaryMetric) string {
	var passRate float64
	if summary.TotalRuns > 0 {
		passRate = float64(summary.PassedRuns) / float64(summary.TotalRuns) * 100.0
	}

	passedValue := fmt.Sprintf("%d (%.1f%%)", summary.PassedRuns, passRate)
	if summary.PassedRuns == summary.TotalRuns {
		passedValue = f.colors.Success(passedValue)
	}

	failedValue := fmt.Sprintf("%d", summary.FailedRuns)
	if summary.FailedRuns > 0 {
		failedValue = f.colors.Failure(failedValue)
	} else {
		failedValue = f.colors.Success(failedValue)
	}

	var (
		headers = []string{"Metric", "Value"}
		rows    = [][]string{
			{"Total Runs", f.colors.Bold(fmt.Sprintf("%d", summary.TotalRuns))},
			{"Passed", passedValue},
			{"Failed", failedValue},
			{"Average Run", format.Duration(summary.AverageDuration)},
			{"Total Duration", format.Duration(summary.TotalDuration)},
		}
	)

	return "\n" + f.colors.Header("▸ Summary") + "\n\n" + f.renderer.RenderToString(headers, rows, WithBorder(false))
}
