// Package metrics exposes Prometheus instrumentation for the file-lifecycle
// subsystems.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type PrometheusMetrics struct {
	registry        prometheus.Registerer
	cleanupRuns     *prometheus.CounterVec
	cleanupDuration prometheus.Histogram
	filesDeleted    prometheus.Counter
	bytesFreed      prometheus.Counter
	deleteErrors    prometheus.Counter
	filesStaged     prometheus.Counter
	stagingSkipped  *prometheus.CounterVec
}

func InitPrometheusMetrics(namespace string, reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &PrometheusMetrics{
		registry: reg,
		cleanupRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cleanup_runs_total",
				Help:      "Total number of cleanup runs",
			},
			[]string{"status"},
		),
		cleanupDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cleanup_run_duration_seconds",
				Help:      "Duration of cleanup runs",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 10, 30},
			},
		),
		filesDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_deleted_total",
				Help:      "Total number of files deleted by cleanup",
			},
		),
		bytesFreed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bytes_freed_total",
				Help:      "Total bytes freed by cleanup",
			},
		),
		deleteErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "delete_errors_total",
				Help:      "Total number of per-file deletion failures",
			},
		),
		filesStaged: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_staged_total",
				Help:      "Total number of files copied into the staging directory",
			},
		),
		stagingSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "staging_skipped_total",
				Help:      "Total number of staging candidates skipped",
			},
			[]string{"reason"},
		),
	}

	reg.MustRegister(
		m.cleanupRuns,
		m.cleanupDuration,
		m.filesDeleted,
		m.bytesFreed,
		m.deleteErrors,
		m.filesStaged,
		m.stagingSkipped,
	)

	return m
}

func (m *PrometheusMetrics) RecordCleanupRun(status string, duration time.Duration) {
	m.cleanupRuns.WithLabelValues(status).Inc()
	m.cleanupDuration.Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordDeletion(sizeBytes int64) {
	m.filesDeleted.Inc()
	m.bytesFreed.Add(float64(sizeBytes))
}

func (m *PrometheusMetrics) RecordDeleteError() {
	m.deleteErrors.Inc()
}

func (m *PrometheusMetrics) RecordStaged() {
	m.filesStaged.Inc()
}

func (m *PrometheusMetrics) RecordStagingSkip(reason string) {
	m.stagingSkipped.WithLabelValues(reason).Inc()
}
