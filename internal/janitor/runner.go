// Package janitor purges expired files from the managed staging area.
//
// A Runner serializes all cleanup work behind a single process-wide run-lock:
// scheduler-triggered and operator-triggered invocations go through the same
// Run method, and a call that finds the lock held is rejected immediately with
// ErrAlreadyRunning instead of queuing. Per-file failures are recorded in the
// report and never abort the batch.
package janitor

import (
	"context"
	"errors"
	"math"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nesta38/NBCM/internal/logger"
	"github.com/nesta38/NBCM/internal/metrics"
	"github.com/nesta38/NBCM/internal/retention"
	"github.com/nesta38/NBCM/internal/retry"
	"github.com/nesta38/NBCM/internal/scanner"
)

// ErrAlreadyRunning is returned when a cleanup run is already in progress.
// The caller may retry later; calls are never queued.
var ErrAlreadyRunning = errors.New("cleanup already running")

// Runner executes cleanup runs against a managed directory.
type Runner struct {
	runMu sync.Mutex // the process-wide run-lock

	cfgMu sync.RWMutex
	cfg   retention.Config

	log     *logger.Logger
	metrics *metrics.PrometheusMetrics

	stateMu    sync.Mutex
	lastRun    time.Time
	lastReport Report

	now func() time.Time
}

// NewRunner creates a cleanup runner. The configuration is validated up
// front; an invalid configuration is fatal.
func NewRunner(cfg retention.Config, log *logger.Logger, m *metrics.PrometheusMetrics) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		cfg:     cfg,
		log:     log,
		metrics: m,
		now:     time.Now,
	}, nil
}

// Reconfigure replaces the retention configuration. This is the only way the
// configuration changes after construction; an invalid replacement is
// rejected and the previous configuration stays in effect.
func (r *Runner) Reconfigure(cfg retention.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.cfgMu.Lock()
	defer r.cfgMu.Unlock()
	r.cfg = cfg

	r.log.Info("retention reconfigured",
		logger.Field{Key: "base_dir", Value: cfg.BaseDir},
		logger.Field{Key: "retention_hours", Value: cfg.RetentionHours})
	return nil
}

// Config returns the current retention configuration.
func (r *Runner) Config() retention.Config {
	r.cfgMu.RLock()
	defer r.cfgMu.RUnlock()
	return r.cfg
}

// Run performs one cleanup pass: scan, filter by age, delete, report.
//
// If another run holds the lock, Run returns ErrAlreadyRunning synchronously.
// A run over an empty or unreadable directory is a success with zero counts,
// not an error. The lock is released on every exit path.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	if !r.runMu.TryLock() {
		if r.metrics != nil {
			r.metrics.RecordCleanupRun("rejected", 0)
		}
		return Report{}, ErrAlreadyRunning
	}
	defer r.runMu.Unlock()

	cfg := r.Config()
	now := r.now()
	started := time.Now()

	report := Report{
		RunID:      uuid.NewString(),
		ExecutedAt: now,
		Cutoff:     cfg.Cutoff(now),
	}

	r.log.Info("cleanup started",
		logger.Field{Key: "run_id", Value: report.RunID},
		logger.Field{Key: "base_dir", Value: cfg.BaseDir},
		logger.Field{Key: "retention_hours", Value: cfg.RetentionHours},
		logger.Field{Key: "cutoff", Value: report.Cutoff.Format(time.RFC3339)})

	records, err := scanner.Scan(cfg.BaseDir)
	if err != nil {
		// Unreadable directory degrades to an empty result set
		r.log.Warn("cleanup scan failed, treating as empty directory",
			logger.Field{Key: "base_dir", Value: cfg.BaseDir},
			logger.Field{Key: "error", Value: err})
		r.finish(&report, started, "completed")
		return report, nil
	}

	report.ScannedCount = len(records)

	for _, record := range records {
		if !cfg.Eligible(record, now) {
			continue
		}
		report.EligibleCount++

		if err := r.deleteFile(ctx, record.Path); err != nil {
			report.Errors = append(report.Errors, DeleteError{
				Path:   record.Path,
				Reason: err.Error(),
			})
			if r.metrics != nil {
				r.metrics.RecordDeleteError()
			}
			r.log.Error("failed to delete file", err,
				logger.Field{Key: "file", Value: record.Name})
			continue
		}

		report.DeletedCount++
		report.BytesFreed += record.SizeBytes
		if r.metrics != nil {
			r.metrics.RecordDeletion(record.SizeBytes)
		}

		r.log.Info("deleted expired file",
			logger.Field{Key: "file", Value: record.Name},
			logger.Field{Key: "age_hours", Value: math.Round(record.AgeHours(now)*10) / 10},
			logger.Field{Key: "size_bytes", Value: record.SizeBytes})
	}

	r.finish(&report, started, "completed")
	return report, nil
}

// deleteFile removes one file with a bounded retry budget.
func (r *Runner) deleteFile(ctx context.Context, path string) error {
	return retry.Do(ctx, func() error {
		err := os.Remove(path)
		if os.IsNotExist(err) {
			// Already gone; the goal state holds.
			return nil
		}
		return err
	}, retry.Config{})
}

// finish stamps the duration, records metrics and state, and emits the
// completion log line.
func (r *Runner) finish(report *Report, started time.Time, status string) {
	report.Duration = time.Since(started)

	if r.metrics != nil {
		r.metrics.RecordCleanupRun(status, report.Duration)
	}

	r.stateMu.Lock()
	r.lastRun = r.now()
	r.lastReport = *report
	r.stateMu.Unlock()

	r.log.Info("cleanup completed",
		logger.Field{Key: "run_id", Value: report.RunID},
		logger.Field{Key: "scanned", Value: report.ScannedCount},
		logger.Field{Key: "eligible", Value: report.EligibleCount},
		logger.Field{Key: "deleted_count", Value: report.DeletedCount},
		logger.Field{Key: "bytes_freed_mb", Value: math.Round(report.BytesFreedMB()*100) / 100},
		logger.Field{Key: "errors", Value: len(report.Errors)},
		logger.Field{Key: "duration_ms", Value: report.Duration.Milliseconds()})
}

// LastReport returns the report of the most recent completed run.
func (r *Runner) LastReport() (Report, bool) {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	if r.lastReport.RunID == "" {
		return Report{}, false
	}
	return r.lastReport, true
}

// LastRun returns the time of the most recent completed run.
func (r *Runner) LastRun() time.Time {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()
	return r.lastRun
}
