// Package history exports summarized audit results to ClickHouse so runs can
// be compared over time.
package history

import (
	"sort"
	"time"

	"github.com/ethpandaops/assetdiff/internal/summary"
	"github.com/google/uuid"
)

// AverageRow is one row of the metric_averages table.
type AverageRow struct {
	ExportID   uuid.UUID
	ExportedAt time.Time
	URL        string
	ReportType string
	Label      string
	Metric     string
	Average    float64
	KeyAudit   bool
}

// DeltaRow is one row of the metric_deltas table.
type DeltaRow struct {
	ExportID   uuid.UUID
	ExportedAt time.Time
	URL        string
	ReportType string
	Label      string
	Metric     string
	Baseline   int32
	Value      *int32 // nil when the label never reported the metric
	RawDelta   int32
	Bucket     string
	Suppressed bool
}

// Snapshot is everything exported for one report type. Every row carries
// the snapshot ID so one export can be told apart from the next.
type Snapshot struct {
	ID       uuid.UUID
	Averages []AverageRow
	Deltas   []DeltaRow
}

// BuildSnapshot flattens a summary into rows. Rows are ordered by table
// label order, then metric id, so repeated exports are stable.
func BuildSnapshot(
	url, reportType string,
	table *summary.Table,
	keyAudits []string,
	deltas summary.Deltas,
	exportedAt time.Time,
) Snapshot {
	var (
		snapshot = Snapshot{ID: uuid.New()}
		isKey    = make(map[string]bool, len(keyAudits))
	)

	for _, metric := range keyAudits {
		isKey[metric] = true
	}

	for _, label := range table.Labels() {
		averages := table.Averages(label)

		metrics := make([]string, 0, len(averages))
		for metric := range averages {
			metrics = append(metrics, metric)
		}

		sort.Strings(metrics)

		for _, metric := range metrics {
			snapshot.Averages = append(snapshot.Averages, AverageRow{
				ExportID:   snapshot.ID,
				ExportedAt: exportedAt,
				URL:        url,
				ReportType: reportType,
				Label:      label,
				Metric:     metric,
				Average:    averages[metric],
				KeyAudit:   isKey[metric],
			})
		}

		for _, metric := range keyAudits {
			record, ok := deltas.Get(label, metric)
			if !ok {
				continue
			}

			row := DeltaRow{
				ExportID:   snapshot.ID,
				ExportedAt: exportedAt,
				URL:        url,
				ReportType: reportType,
				Label:      label,
				Metric:     metric,
				Baseline:   int32(record.Baseline), //nolint:gosec // G115: scores are 0..100
				RawDelta:   int32(record.RawDelta), //nolint:gosec // G115: bounded percentage
				Bucket:     string(record.Bucket),
				Suppressed: record.Suppressed,
			}

			if record.HasValue {
				value := int32(record.Value) //nolint:gosec // G115: scores are 0..100
				row.Value = &value
			}

			snapshot.Deltas = append(snapshot.Deltas, row)
		}
	}

	return snapshot
}
