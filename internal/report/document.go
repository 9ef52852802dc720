// Package report turns a metric average table and its deltas into a
// structured document and renders it as a standalone HTML page.
package report

import (
	"fmt"
	"math"
	"time"

	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/ethpandaops/assetdiff/internal/format"
	"github.com/ethpandaops/assetdiff/internal/summary"
)

// NotAvailable is shown for metrics a label never reported.
const NotAvailable = "n/a"

// Meta describes where a document came from.
type Meta struct {
	URL         string
	ReportType  string
	GeneratedAt time.Time
}

// Cell is one metric value of a row.
type Cell struct {
	Metric   string
	Value    string
	Delta    string // empty for the baseline and absent values
	Bucket   summary.Bucket
	Baseline bool
}

// Class returns the stylesheet class of the cell.
func (c Cell) Class() string {
	return c.Bucket.CSSClass()
}

// Text returns the plain rendering of the cell, e.g. "96 (+20%)".
func (c Cell) Text() string {
	if c.Delta == "" {
		return c.Value
	}

	return fmt.Sprintf("%s (%s)", c.Value, c.Delta)
}

// Row is one label of the report.
type Row struct {
	Label string
	Cells []Cell
}

// Document is the presentation-free form of a summary report.
type Document struct {
	Meta    Meta
	Headers []string
	Rows    []Row
}

// Build lays out table and deltas as rows of cells: a header of "Test" plus
// each key audit, the baseline row first, then every other label in table
// order.
func Build(table *summary.Table, keyAudits []string, deltas summary.Deltas, meta Meta) Document {
	doc := Document{
		Meta:    meta,
		Headers: append([]string{"Test"}, keyAudits...),
		Rows:    make([]Row, 0, len(table.Labels())),
	}

	if table.Has(config.BaselineLabel) {
		doc.Rows = append(doc.Rows, baselineRow(table, keyAudits))
	}

	for _, label := range table.Labels() {
		if label == config.BaselineLabel {
			continue
		}

		row := Row{Label: label, Cells: make([]Cell, 0, len(keyAudits))}

		for _, metric := range keyAudits {
			row.Cells = append(row.Cells, deltaCell(deltas, label, metric))
		}

		doc.Rows = append(doc.Rows, row)
	}

	return doc
}

func baselineRow(table *summary.Table, keyAudits []string) Row {
	row := Row{Label: config.BaselineLabel, Cells: make([]Cell, 0, len(keyAudits))}

	for _, metric := range keyAudits {
		cell := Cell{Metric: metric, Value: NotAvailable, Bucket: summary.BucketNeutral, Baseline: true}

		if v, ok := table.Value(config.BaselineLabel, metric); ok {
			cell.Value = format.Score(int(math.Round(v)))
		}

		row.Cells = append(row.Cells, cell)
	}

	return row
}

func deltaCell(deltas summary.Deltas, label, metric string) Cell {
	cell := Cell{Metric: metric, Value: NotAvailable, Bucket: summary.BucketNeutral}

	record, ok := deltas.Get(label, metric)
	if !ok || !record.HasValue {
		return cell
	}

	cell.Value = format.Score(record.Value)
	cell.Delta = format.Delta(record.RawDelta)
	cell.Bucket = record.Bucket

	return cell
}
