package table

import (
	"github.com/ethpandaops/assetdiff/internal/report"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
)

// DeltaFormatter formats a summary report document for the terminal.
type DeltaFormatter struct {
	log      logrus.FieldLogger
	renderer Renderer
	colors   *ColorHelper
}

// NewDeltaFormatter creates a new delta table formatter.
func NewDeltaFormatter(log logrus.FieldLogger, renderer Renderer) *DeltaFormatter {
	return &DeltaFormatter{
		log:      log.WithField("component", "table.delta_formatter"),
		renderer: renderer,
		colors:   NewColorHelper(),
	}
}

// Format renders doc with each delta cell colored by its bucket.
func (f *DeltaFormatter) Format(doc report.Document) string {
	if len(doc.Rows) == 0 {
		return "No results to summarize"
	}

	rows := make([][]string, 0, len(doc.Rows))

	for _, row := range doc.Rows {
		cells := make([]string, 0, len(row.Cells)+1)
		cells = append(cells, f.colors.Bold(row.Label))

		for _, cell := range row.Cells {
			if cell.Value == report.NotAvailable {
				cells = append(cells, f.colors.Muted(cell.Text()))
				continue
			}

			cells = append(cells, f.colors.FormatBucket(cell.Bucket, cell.Text()))
		}

		rows = append(rows, cells)
	}

	title := "▸ Summary"
	if doc.Meta.ReportType != "" {
		title += " (" + doc.Meta.ReportType + ")"
	}

	return "\n" + f.colors.Header(title) + "\n\n" + f.renderer.RenderToString(doc.Headers, rows,
		WithLabelColumn(len(doc.Headers), tablewriter.ALIGN_RIGHT),
	)
}
