package summary

import (
	"fmt"

	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/ethpandaops/assetdiff/internal/store"
	"github.com/sirupsen/logrus"
)

// Aggregator computes the metric average table of one report type.
type Aggregator struct {
	store store.Store
	log   logrus.FieldLogger
}

// NewAggregator creates an aggregator reading from s.
func NewAggregator(log logrus.FieldLogger, s store.Store) *Aggregator {
	return &Aggregator{
		store: s,
		log: log.WithFields(logrus.Fields{
			"component":   "aggregator",
			"report_type": s.ReportType(),
		}),
	}
}

// Aggregate averages every metric of every label. When labels is empty the
// label directories found in the store are used. The baseline label is
// always aggregated first; a missing baseline fails with
// *store.MissingManifestError.
func (a *Aggregator) Aggregate(labels []string) (*Table, error) {
	if len(labels) == 0 {
		found, err := a.store.Labels()
		if err != nil {
			return nil, fmt.Errorf("listing labels: %w", err)
		}

		labels = found
	}

	table := NewTable()

	for _, label := range withBaselineFirst(labels) {
		averages, runs, err := a.aggregateLabel(label)
		if err != nil {
			return nil, err
		}

		table.Set(label, averages)

		a.log.WithFields(logrus.Fields{
			"label":   label,
			"runs":    runs,
			"metrics": len(averages),
		}).Debug("aggregated label")
	}

	return table, nil
}

func (a *Aggregator) aggregateLabel(label string) (map[string]float64, int, error) {
	_, results, err := a.store.ReadBatchResults(label)
	if err != nil {
		return nil, 0, fmt.Errorf("reading results for %s: %w", label, err)
	}

	scores := make(map[string][]float64)

	for _, result := range results {
		for metric, score := range result.Scores {
			scores[metric] = append(scores[metric], score)
		}
	}

	averages := make(map[string]float64, len(scores))
	for metric, values := range scores {
		averages[metric] = Mean(values)
	}

	return averages, len(results), nil
}

func withBaselineFirst(labels []string) []string {
	out := make([]string, 0, len(labels)+1)
	out = append(out, config.BaselineLabel)

	for _, label := range labels {
		if label != config.BaselineLabel {
			out = append(out, label)
		}
	}

	return out
}
