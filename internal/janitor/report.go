package janitor

import (
	"time"
)

// DeleteError records a single failed deletion. The batch continues past it.
type DeleteError struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report holds the outcome of one cleanup run. It is produced once per run
// and never mutated afterwards.
//
// DeletedCount counts successful removals only, so DeletedCount <= EligibleCount
// always holds; BytesFreed sums the sizes of successfully removed files.
type Report struct {
	RunID         string
	ScannedCount  int
	EligibleCount int
	DeletedCount  int
	BytesFreed    int64
	Errors        []DeleteError
	ExecutedAt    time.Time
	Cutoff        time.Time
	Duration      time.Duration
}

// BytesFreedMB returns the freed size in megabytes.
func (r Report) BytesFreedMB() float64 {
	return float64(r.BytesFreed) / (1024 * 1024)
}
