// Package retention decides which files are old enough to purge.
package retention

import (
	"fmt"
	"time"

	"github.com/nesta38/NBCM/internal/scanner"
)

// Config holds the retention settings for one managed directory.
// It is loaded once at service start and replaced only through an explicit
// reconfiguration call, never mutated in place.
type Config struct {
	BaseDir        string
	RetentionHours int
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("retention: base dir is required")
	}
	if c.RetentionHours <= 0 {
		return fmt.Errorf("retention: retention hours must be positive (got %d)", c.RetentionHours)
	}
	return nil
}

// Cutoff returns the timestamp boundary: files modified before it are old
// enough to purge.
func (c Config) Cutoff(now time.Time) time.Time {
	return now.Add(-time.Duration(c.RetentionHours) * time.Hour)
}

// Eligible reports whether the file's age strictly exceeds the retention
// threshold. A file exactly at the threshold is NOT eligible; the strict
// comparison is relied on by callers and must not be relaxed.
func (c Config) Eligible(record scanner.FileRecord, now time.Time) bool {
	return record.AgeHours(now) > float64(c.RetentionHours)
}
