// Package plan derives the audit runs to execute from an audit configuration.
package plan

import (
	"github.com/ethpandaops/assetdiff/internal/config"
	"github.com/sirupsen/logrus"
)

// Run is one planned batch: a test label audited with a set of blocked
// URL patterns, stored under its report type.
type Run struct {
	ReportType string
	Label      string
	Patterns   []string
}

// IsBaseline reports whether the run is the unblocked reference run.
func (r Run) IsBaseline() bool {
	return r.Label == config.BaselineLabel
}

// Build returns the ordered runs for every report type requested by cfg.
// Each report type starts with the baseline run followed by one run per
// asset group. Individual runs block only their group's patterns. The
// aggregate run labelled with group i blocks the union of groups 0..i, its
// own patterns included, so the first aggregate run blocks exactly what the
// first individual run blocks and the last one blocks every group.
func Build(log logrus.FieldLogger, cfg config.Config) []Run {
	log = log.WithField("component", "plan")

	runs := make([]Run, 0, len(cfg.AssetTests)*(len(cfg.AssetGroups)+1))

	for _, reportType := range config.ReportTypes {
		if !requested(cfg.AssetTests, reportType) {
			continue
		}

		runs = append(runs, Run{ReportType: reportType, Label: config.BaselineLabel})

		var cumulative []string

		for _, group := range cfg.AssetGroups {
			patterns := append([]string(nil), group.Patterns...)

			if reportType == config.ReportTypeAggregate {
				cumulative = union(cumulative, group.Patterns)
				patterns = append([]string(nil), cumulative...)

				log.WithFields(logrus.Fields{
					"label":    group.Label,
					"patterns": len(patterns),
				}).Debug("built cumulative pattern set")
			}

			runs = append(runs, Run{
				ReportType: reportType,
				Label:      group.Label,
				Patterns:   patterns,
			})
		}
	}

	return runs
}

func requested(assetTests []string, reportType string) bool {
	for _, t := range assetTests {
		if t == reportType {
			return true
		}
	}

	return false
}

// union appends patterns not already present, preserving first-seen order.
func union(acc, patterns []string) []string {
	seen := make(map[string]struct{}, len(acc))
	for _, p := range acc {
		seen[p] = struct{}{}
	}

	for _, p := range patterns {
		if _, ok := seen[p]; ok {
			continue
		}

		seen[p] = struct{}{}
		acc = append(acc, p)
	}

	return acc
}
