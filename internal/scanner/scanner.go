// Package scanner enumerates files one directory level deep and produces
// metadata snapshots for the retention and staging subsystems.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileRecord is a point-in-time snapshot of a single file. Records are taken
// at scan time and discarded after use; they are never cached across calls.
type FileRecord struct {
	Path       string
	Name       string
	SizeBytes  int64
	ModifiedAt time.Time
}

// AgeHours returns the file age in hours relative to now.
func (r FileRecord) AgeHours(now time.Time) float64 {
	return now.Sub(r.ModifiedAt).Hours()
}

// Scan lists the files directly under dir (subdirectories are skipped, not
// descended into). Each call is an independent, fresh snapshot.
//
// A missing or unreadable directory is returned as an error; callers treat
// that as "zero files", not as a fatal condition.
func Scan(dir string) ([]FileRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var records []FileRecord
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// File disappeared between ReadDir and Info
			continue
		}

		records = append(records, FileRecord{
			Path:       filepath.Join(dir, entry.Name()),
			Name:       entry.Name(),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	return records, nil
}
