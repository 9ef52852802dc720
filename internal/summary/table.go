// Package summary aggregates stored audit runs into per-label metric
// averages and classifies each label's deltas against the baseline.
package summary

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Table maps test label -> metric id -> mean score, keeping label order.
type Table struct {
	labels   []string
	averages map[string]map[string]float64
}

type tableJSON struct {
	Labels   []string                      `json:"labels"`
	Averages map[string]map[string]float64 `json:"averages"`
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{averages: make(map[string]map[string]float64)}
}

// Set stores the averages of label, appending label to the order if new.
func (t *Table) Set(label string, averages map[string]float64) {
	if _, ok := t.averages[label]; !ok {
		t.labels = append(t.labels, label)
	}

	if averages == nil {
		averages = map[string]float64{}
	}

	t.averages[label] = averages
}

// Labels returns the labels in insertion order.
func (t *Table) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Has reports whether label is present.
func (t *Table) Has(label string) bool {
	_, ok := t.averages[label]
	return ok
}

// Value returns the mean of metric for label.
func (t *Table) Value(label, metric string) (float64, bool) {
	metrics, ok := t.averages[label]
	if !ok {
		return 0, false
	}

	v, ok := metrics[metric]

	return v, ok
}

// Averages returns the metric means of label.
func (t *Table) Averages(label string) map[string]float64 {
	return t.averages[label]
}

// MarshalJSON encodes the table with its label order.
func (t *Table) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableJSON{Labels: t.labels, Averages: t.averages})
}

// UnmarshalJSON decodes a table written by MarshalJSON.
func (t *Table) UnmarshalJSON(data []byte) error {
	var raw tableJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = *NewTable()

	for _, label := range raw.Labels {
		averages, ok := raw.Averages[label]
		if !ok {
			return fmt.Errorf("label %q has no averages", label)
		}

		t.Set(label, averages)
	}

	return nil
}

// Mean returns the arithmetic mean of scores, or 0 for no scores. Scores are
// summed in sorted order so the result does not depend on input order.
func Mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	var sum float64
	for _, s := range sorted {
		sum += s
	}

	return sum / float64(len(sorted))
}
