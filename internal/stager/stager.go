// Package stager relocates freshly produced import files into a staging
// directory under a rewritten filename.
//
// Files are copied, never moved: the source directory is left untouched.
// Copies go through a temp file in the destination directory followed by an
// atomic rename, so a reader of the staging directory never observes a
// partially written file. Work on the same destination path is serialized
// through a singleflight group.
package stager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/nesta38/NBCM/internal/logger"
	"github.com/nesta38/NBCM/internal/metrics"
	"github.com/nesta38/NBCM/internal/retry"
	"github.com/nesta38/NBCM/internal/scanner"
)

// ErrCollision is returned when the destination file already exists with
// different content.
var ErrCollision = errors.New("destination exists with different content")

// Task configures one staging pass. Tasks carry no state between
// invocations; distinct (SourceDir, DestDir) pairs are fully independent.
type Task struct {
	SourceDir       string
	DestDir         string
	Pattern         string // glob matched against source filenames
	LookbackMinutes int    // only files modified within this window are staged
}

// Skip records a candidate file that was not copied this run.
type Skip struct {
	File   string `json:"file"`
	Reason string `json:"reason"` // name_format, collision, copy_failed, identical
	Detail string `json:"detail,omitempty"`
}

// Result holds the outcome of one staging pass.
type Result struct {
	Staged  []string // destination filenames copied this run
	Skipped []Skip
}

// Stager copies recent processed files into a staging directory.
type Stager struct {
	log     *logger.Logger
	metrics *metrics.PrometheusMetrics
	flights singleflight.Group
	now     func() time.Time
}

// New creates a stager. Metrics may be nil.
func New(log *logger.Logger, m *metrics.PrometheusMetrics) *Stager {
	return &Stager{
		log:     log,
		metrics: m,
		now:     time.Now,
	}
}

// StageRecent selects files in task.SourceDir modified within the lookback
// window and matching task.Pattern, and copies each into task.DestDir under
// its rewritten name. The destination directory is created on demand.
//
// Per-file problems (malformed names, collisions, copy failures) are
// recorded as skips and never abort the batch. An already-staged file with
// identical content is a no-op success. An unreadable source directory
// degrades to an empty result.
func (s *Stager) StageRecent(ctx context.Context, task Task) (Result, error) {
	var result Result

	if err := os.MkdirAll(task.DestDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create staging directory %s: %w", task.DestDir, err)
	}

	records, err := scanner.Scan(task.SourceDir)
	if err != nil {
		s.log.Warn("staging scan failed, treating as empty directory",
			logger.Field{Key: "source_dir", Value: task.SourceDir},
			logger.Field{Key: "error", Value: err})
		return result, nil
	}

	cutoff := s.now().Add(-time.Duration(task.LookbackMinutes) * time.Minute)

	for _, record := range records {
		if !record.ModifiedAt.After(cutoff) {
			continue
		}
		if task.Pattern != "" {
			match, err := filepath.Match(task.Pattern, record.Name)
			if err != nil || !match {
				continue
			}
		}

		destName, err := StagedName(record.Name)
		if err != nil {
			result.Skipped = append(result.Skipped, Skip{File: record.Name, Reason: "name_format", Detail: err.Error()})
			s.recordSkip("name_format")
			s.log.Warn("skipping file with malformed name",
				logger.Field{Key: "file", Value: record.Name},
				logger.Field{Key: "error", Value: err})
			continue
		}

		destPath := filepath.Join(task.DestDir, destName)
		copied, err := s.stageOne(ctx, record, destPath)
		switch {
		case errors.Is(err, ErrCollision):
			result.Skipped = append(result.Skipped, Skip{File: record.Name, Reason: "collision", Detail: err.Error()})
			s.recordSkip("collision")
			s.log.Warn("staging collision, destination differs",
				logger.Field{Key: "file", Value: record.Name},
				logger.Field{Key: "dest", Value: destPath})
		case err != nil:
			result.Skipped = append(result.Skipped, Skip{File: record.Name, Reason: "copy_failed", Detail: err.Error()})
			s.recordSkip("copy_failed")
			s.log.Error("failed to stage file", err,
				logger.Field{Key: "file", Value: record.Name},
				logger.Field{Key: "dest", Value: destPath})
		case copied:
			result.Staged = append(result.Staged, destName)
			if s.metrics != nil {
				s.metrics.RecordStaged()
			}
			s.log.Info("staged file",
				logger.Field{Key: "file", Value: record.Name},
				logger.Field{Key: "staged_as", Value: destName})
		default:
			// Destination already holds identical content
			result.Skipped = append(result.Skipped, Skip{File: record.Name, Reason: "identical"})
			s.recordSkip("identical")
			s.log.Debug("already staged, identical content",
				logger.Field{Key: "file", Value: record.Name},
				logger.Field{Key: "dest", Value: destPath})
		}
	}

	s.log.Info("staging pass completed",
		logger.Field{Key: "source_dir", Value: task.SourceDir},
		logger.Field{Key: "staged", Value: len(result.Staged)},
		logger.Field{Key: "skipped", Value: len(result.Skipped)})

	return result, nil
}

// stageOne copies a single file, serialized per destination path. It returns
// (false, nil) when the destination already holds identical content,
// ErrCollision when it holds different content.
func (s *Stager) stageOne(ctx context.Context, record scanner.FileRecord, destPath string) (bool, error) {
	v, err, _ := s.flights.Do(destPath, func() (interface{}, error) {
		if _, statErr := os.Stat(destPath); statErr == nil {
			same, cmpErr := sameContent(record.Path, destPath)
			if cmpErr != nil {
				return false, cmpErr
			}
			if same {
				return false, nil
			}
			return false, fmt.Errorf("%w: %s", ErrCollision, destPath)
		} else if !os.IsNotExist(statErr) {
			return false, statErr
		}

		copyErr := retry.Do(ctx, func() error {
			return copyPreserving(record.Path, destPath)
		}, retry.Config{})
		if copyErr != nil {
			return false, copyErr
		}
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// copyPreserving copies src to dst through a temp file in dst's directory,
// preserving mode and modification time, finishing with an atomic rename.
func copyPreserving(src, dst string) error {
	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dst), ".staging-*")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmpFile, srcFile); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, srcInfo.Mode().Perm()); err != nil {
		return err
	}
	if err := os.Chtimes(tmpName, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return err
	}

	return os.Rename(tmpName, dst)
}

// sameContent compares two files by hashing their contents.
func sameContent(a, b string) (bool, error) {
	hashA, err := hashFile(a)
	if err != nil {
		return false, err
	}
	hashB, err := hashFile(b)
	if err != nil {
		return false, err
	}
	return hashA == hashB, nil
}

func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

func (s *Stager) recordSkip(reason string) {
	if s.metrics != nil {
		s.metrics.RecordStagingSkip(reason)
	}
}
