// Package stats computes read-only aggregate views over a managed directory.
package stats

import (
	"time"

	"github.com/nesta38/NBCM/internal/retention"
	"github.com/nesta38/NBCM/internal/scanner"
)

// DirectoryStats is a point-in-time aggregation over one directory. It is
// recomputed from a fresh scan on every query and never cached.
type DirectoryStats struct {
	TotalFiles      int
	TotalBytes      int64
	EligibleFiles   int
	EligibleBytes   int64
	PercentEligible float64
}

// Current scans dir and aggregates file counts and sizes against the given
// retention threshold. It mutates nothing and is safe to call concurrently
// with a running cleanup; the view may include files about to be deleted.
//
// An unreadable directory yields empty stats, matching the cleanup runner's
// degraded behavior.
func Current(dir string, retentionHours int) DirectoryStats {
	cfg := retention.Config{BaseDir: dir, RetentionHours: retentionHours}
	now := time.Now()

	var s DirectoryStats

	records, err := scanner.Scan(dir)
	if err != nil {
		return s
	}

	for _, record := range records {
		s.TotalFiles++
		s.TotalBytes += record.SizeBytes

		if cfg.Eligible(record, now) {
			s.EligibleFiles++
			s.EligibleBytes += record.SizeBytes
		}
	}

	if s.TotalFiles > 0 {
		s.PercentEligible = float64(s.EligibleFiles) / float64(s.TotalFiles) * 100
	}

	return s
}
