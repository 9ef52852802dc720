// Package batch executes planned audit runs and persists their results.
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/ethpandaops/assetdiff/internal/lighthouse"
	"github.com/ethpandaops/assetdiff/internal/metrics"
	"github.com/ethpandaops/assetdiff/internal/plan"
	"github.com/ethpandaops/assetdiff/internal/store"
	"github.com/sirupsen/logrus"
)

// Runner audits every planned run sequentially, one engine invocation at a
// time. It does not retry: the first failed invocation halts the batch and
// results already written stay on disk.
type Runner struct {
	auditor    lighthouse.Auditor
	metrics    metrics.Collector
	reportsDir string
	log        logrus.FieldLogger
	stores     map[string]store.Store
}

// NewRunner creates a batch runner writing results under reportsDir.
func NewRunner(log logrus.FieldLogger, auditor lighthouse.Auditor, collector metrics.Collector, reportsDir string) *Runner {
	return &Runner{
		auditor:    auditor,
		metrics:    collector,
		reportsDir: reportsDir,
		log:        log.WithField("component", "batch_runner"),
		stores:     make(map[string]store.Store),
	}
}

// Execute runs every planned run in order, auditing url repeat times each.
func (r *Runner) Execute(ctx context.Context, url string, repeat int, runs []plan.Run) error {
	r.log.WithFields(logrus.Fields{
		"url":    url,
		"runs":   len(runs),
		"repeat": repeat,
	}).Info("starting audit batch")

	for _, run := range runs {
		if err := r.RunBatch(ctx, url, repeat, run); err != nil {
			return err
		}
	}

	return nil
}

// RunBatch audits a single planned run repeat times and stores every result
// under the run's report type and label.
func (r *Runner) RunBatch(ctx context.Context, url string, repeat int, run plan.Run) error {
	logCtx := r.log.WithFields(logrus.Fields{
		"report_type": run.ReportType,
		"label":       run.Label,
		"patterns":    len(run.Patterns),
	})
	logCtx.Info("running audits")

	s := r.storeFor(run.ReportType)

	if err := s.PrepareLabel(run.Label); err != nil {
		return fmt.Errorf("preparing %s/%s: %w", run.ReportType, run.Label, err)
	}

	start := time.Now()

	for i := 0; i < repeat; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("batch canceled before %s run %d: %w", run.Label, i+1, err)
		}

		out, err := r.auditor.Audit(ctx, lighthouse.Request{URL: url, Patterns: run.Patterns})

		metric := &metrics.RunMetric{
			ReportType: run.ReportType,
			Label:      run.Label,
			Run:        i + 1,
			Passed:     err == nil,
			Timestamp:  time.Now(),
		}

		if err != nil {
			metric.ErrorMessage = err.Error()
			r.metrics.RecordRun(metric)

			return fmt.Errorf("auditing %s/%s run %d/%d: %w", run.ReportType, run.Label, i+1, repeat, err)
		}

		metric.Duration = out.Duration
		metric.PerformanceScore = out.Report.PerformanceScore()
		r.metrics.RecordRun(metric)

		if err := s.WriteBatchResult(run.Label, i, store.BatchResult{
			URL:   url,
			JSON:  out.JSON,
			HTML:  out.HTML,
			Score: metric.PerformanceScore,
		}); err != nil {
			return fmt.Errorf("storing %s/%s run %d: %w", run.ReportType, run.Label, i+1, err)
		}

		logCtx.WithFields(logrus.Fields{
			"run":      i + 1,
			"score":    metric.PerformanceScore,
			"duration": out.Duration,
		}).Debug("audit completed")
	}

	logCtx.WithField("duration", time.Since(start)).Info("audits completed")

	return nil
}

func (r *Runner) storeFor(reportType string) store.Store {
	if s, ok := r.stores[reportType]; ok {
		return s
	}

	s := store.NewFSStore(r.log, r.reportsDir, reportType)
	r.stores[reportType] = s

	return s
}
