// Package admin serializes reports and directory statistics for the admin
// surface. Views are plain records; presentation (HTTP, templates, auth)
// lives outside this service.
package admin

import (
	"math"

	"github.com/nesta38/NBCM/internal/janitor"
	"github.com/nesta38/NBCM/internal/stats"
)

// ReportView is the admin-facing rendering of a cleanup report. Sizes are
// expressed in MB rounded to 2 decimals.
type ReportView struct {
	RunID        string                `json:"run_id"`
	ExecutedAt   string                `json:"executed_at"`
	Cutoff       string                `json:"cutoff"`
	Scanned      int                   `json:"scanned"`
	Eligible     int                   `json:"eligible"`
	DeletedCount int                   `json:"deleted_count"`
	BytesFreedMB float64               `json:"bytes_freed_mb"`
	Errors       []janitor.DeleteError `json:"errors"`
	DurationMS   int64                 `json:"duration_ms"`
}

// StatsView is the admin-facing rendering of directory statistics.
type StatsView struct {
	TotalFiles      int     `json:"total_files"`
	TotalBytes      int64   `json:"total_bytes"`
	TotalMB         float64 `json:"total_mb"`
	EligibleFiles   int     `json:"eligible_files"`
	EligibleBytes   int64   `json:"eligible_bytes"`
	EligibleMB      float64 `json:"eligible_mb"`
	PercentEligible float64 `json:"percent_eligible"`
}

// NewReportView builds the serialized view of a cleanup report.
func NewReportView(report janitor.Report) ReportView {
	errors := report.Errors
	if errors == nil {
		errors = []janitor.DeleteError{}
	}
	return ReportView{
		RunID:        report.RunID,
		ExecutedAt:   report.ExecutedAt.Format("2006-01-02 15:04:05"),
		Cutoff:       report.Cutoff.Format("2006-01-02 15:04:05"),
		Scanned:      report.ScannedCount,
		Eligible:     report.EligibleCount,
		DeletedCount: report.DeletedCount,
		BytesFreedMB: RoundMB(report.BytesFreed),
		Errors:       errors,
		DurationMS:   report.Duration.Milliseconds(),
	}
}

// NewStatsView builds the serialized view of directory statistics.
func NewStatsView(s stats.DirectoryStats) StatsView {
	return StatsView{
		TotalFiles:      s.TotalFiles,
		TotalBytes:      s.TotalBytes,
		TotalMB:         RoundMB(s.TotalBytes),
		EligibleFiles:   s.EligibleFiles,
		EligibleBytes:   s.EligibleBytes,
		EligibleMB:      RoundMB(s.EligibleBytes),
		PercentEligible: round2(s.PercentEligible),
	}
}

// RoundMB converts bytes to megabytes rounded to 2 decimals.
func RoundMB(bytes int64) float64 {
	return round2(float64(bytes) / (1024 * 1024))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
