package table

import (
	"fmt"
	"strings"

	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/ethpandaops/assetdiff/internal/plan"
	"github.com/sirupsen/logrus"
)

// PlanFormatter formats planned runs as a table.
type PlanFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewPlanFormatter creates a new plan table formatter.
func NewPlanFormatter(log logrus.FieldLogger, renderer Renderer) *PlanFormatter {
	return &PlanFormatter{
		log:      log.WithField("component", "table.plan_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format lists every planned run with the patterns it blocks.
func (f *PlanFormatter) Format(url string, runs int, planned []plan.Run) string {
	if len(planned) == 0 {
		return "No runs planned"
	}

	var (
		headers = []string{"Report", "Test", "Blocked Patterns"}
		rows    = make([][]string, 0, len(planned))
	)

	for _, run := range planned {
		patterns := f.colors.Muted("none")
		if len(run.Patterns) > 0 {
			patterns = strings.Join(run.Patterns, ", ")
		}

		rows = append(rows, []string{run.ReportType, run.Label, patterns})
	}

	title := fmt.Sprintf("▸ Plan: %s (%d runs each, %d audits total)", url, runs, runs*len(planned))
	out := "\n" + f.colors.Header(title) + "\n\n" + f.renderer.RenderToString(headers, rows)

	if hasAggregate(planned) {
		out += "\n" + f.colors.Muted(aggregateNote) + "\n"
	}

	return out
}

// aggregateNote explains the cumulative blocking of aggregate runs.
const aggregateNote = "aggregate runs block their own group plus every group listed before it"

func hasAggregate(planned []plan.Run) bool {
	for _, run := range planned {
		if run.ReportType == config.ReportTypeAggregate {
			return true
		}
	}

	return false
}
