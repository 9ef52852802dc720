// Package metrics collects per-run audit execution metrics.
package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// RunMetric captures one auditing engine invocation.
type RunMetric struct {
	ReportType       string
	Label            string
	Run              int
	Passed           bool
	Duration         time.Duration
	PerformanceScore float64
	ErrorMessage     string // empty if passed
	Timestamp        time.Time
}

// SummaryMetric provides aggregate statistics across all runs
type SummaryMetric struct {
	TotalDuration   time.Duration
	TotalRuns       int
	PassedRuns      int
	FailedRuns      int
	AverageDuration time.Duration
}

// Collector interface for metrics collection
type Collector interface {
	Start(ctx context.Context) error
	Stop() error
	RecordRun(metric *RunMetric)
	GetRunMetrics() []RunMetric
	GetSummary() SummaryMetric
}

// collector implements Collector interface
type collector struct {
	log        logrus.FieldLogger
	mu         sync.RWMutex
	runMetrics []RunMetric
	startTime  time.Time
}

// NewCollector creates a new metrics collector
func NewCollector(log logrus.FieldLogger) Collector {
	return &collector{
		log:        log.WithField("component", "metrics_collector"),
		runMetrics: make([]RunMetric, 0, 50), // capacity hint
	}
}

func (c *collector) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()

	c.log.Debug("metrics collector started")

	return nil
}

func (c *collector) Stop() error {
	c.log.Debug("metrics collector stopped")

	return nil
}

func (c *collector) RecordRun(metric *RunMetric) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.runMetrics = append(c.runMetrics, *metric)
}

func (c *collector) GetRunMetrics() []RunMetric {
	c.mu.RLock()
	defer c.mu.RUnlock()
	// Return copy to avoid race conditions
	result := make([]RunMetric, len(c.runMetrics))
	copy(result, c.runMetrics)
	return result
}

func (c *collector) GetSummary() SummaryMetric {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var (
		passed      int
		failed      int
		runDuration time.Duration
	)

	for _, rm := range c.runMetrics {
		if rm.Passed {
			passed++
		} else {
			failed++
		}
		runDuration += rm.Duration
	}

	var average time.Duration
	if len(c.runMetrics) > 0 {
		average = runDuration / time.Duration(len(c.runMetrics))
	}

	var total time.Duration
	if !c.startTime.IsZero() {
		total = time.Since(c.startTime)
	}

	return SummaryMetric{
		TotalDuration:   total,
		TotalRuns:       len(c.runMetrics),
		PassedRuns:      passed,
		FailedRuns:      failed,
		AverageDuration: average,
	}
}

// Compile-time interface compliance check
var _ Collector = (*collector)(nil)
