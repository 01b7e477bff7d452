package stager

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nesta38/NBCM/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "error", Format: "text", Output: "stderr"})
	require.NoError(t, err)
	return log
}

func writeSource(t *testing.T, dir, name, content string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0640))
	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func defaultTask(sourceDir, destDir string) Task {
	return Task{
		SourceDir:       sourceDir,
		DestDir:         destDir,
		Pattern:         "*.csv",
		LookbackMinutes: 10,
	}
}

func TestStageRecent(t *testing.T) {
	sourceDir := t.TempDir()
	destDir := filepath.Join(t.TempDir(), "import") // does not exist yet

	src := writeSource(t, sourceDir, "20251201_224623_altaview_imap_20251201_224523.csv", "host;job;status\n", time.Minute)

	s := New(testLogger(t), nil)
	result, err := s.StageRecent(context.Background(), defaultTask(sourceDir, destDir))
	require.NoError(t, err)

	require.Equal(t, []string{"altaview_imap_20251201_224523.csv"}, result.Staged)
	assert.Empty(t, result.Skipped)

	destPath := filepath.Join(destDir, "altaview_imap_20251201_224523.csv")
	data, err := os.ReadFile(destPath)
	require.NoError(t, err)
	assert.Equal(t, "host;job;status\n", string(data))

	// Copy, never move: the source stays in place
	assert.FileExists(t, src)

	// Mode and modification time are preserved
	srcInfo, err := os.Stat(src)
	require.NoError(t, err)
	destInfo, err := os.Stat(destPath)
	require.NoError(t, err)
	assert.Equal(t, srcInfo.Mode().Perm(), destInfo.Mode().Perm())
	assert.WithinDuration(t, srcInfo.ModTime(), destInfo.ModTime(), time.Second)
}

func TestStageRecent_LookbackWindow(t *testing.T) {
	sourceDir := t.TempDir()
	destDir := t.TempDir()

	writeSource(t, sourceDir, "20251201_110000_recent.csv", "recent", time.Minute)
	writeSource(t, sourceDir, "20251201_100000_stale.csv", "stale", time.Hour)

	s := New(testLogger(t), nil)
	result, err := s.StageRecent(context.Background(), defaultTask(sourceDir, destDir))
	require.NoError(t, err)

	assert.Equal(t, []string{"recent.csv"}, result.Staged)
	assert.Empty(t, result.Skipped, "out-of-window files are not candidates, not skips")
	assert.NoFileExists(t, filepath.Join(destDir, "stale.csv"))
}

func TestStageRecent_PatternFilter(t *testing.T) {
	sourceDir := t.TempDir()
	destDir := t.TempDir()

	writeSource(t, sourceDir, "20251201_110000_data.csv", "csv", time.Minute)
	writeSource(t, sourceDir, "20251201_110000_notes.txt", "txt", time.Minute)

	s := New(testLogger(t), nil)
	result, err := s.StageRecent(context.Background(), defaultTask(sourceDir, destDir))
	require.NoError(t, err)

	assert.Equal(t, []string{"data.csv"}, result.Staged)
}

func TestStageRecent_IdempotentRerun(t *testing.T) {
	sourceDir := t.TempDir()
	destDir := t.TempDir()

	writeSource(t, sourceDir, "20251201_110000_data.csv", "payload", time.Minute)

	s := New(testLogger(t), nil)
	task := defaultTask(sourceDir, destDir)

	first, err := s.StageRecent(context.Background(), task)
	require.NoError(t, err)
	require.Equal(t, []string{"data.csv"}, first.Staged)

	second, err := s.StageRecent(context.Background(), task)
	require.NoError(t, err)

	assert.Empty(t, second.Staged, "identical file must not be copied again")
	require.Len(t, second.Skipped, 1)
	assert.Equal(t, "identical", second.Skipped[0].Reason)

	entries, err := os.ReadDir(destDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no duplicates in the staging directory")

	data, err := os.ReadFile(filepath.Join(destDir, "data.csv"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestStageRecent_Collision(t *testing.T) {
	sourceDir := t.TempDir()
	destDir := t.TempDir()

	writeSource(t, sourceDir, "20251201_110000_data.csv", "new content", time.Minute)
	require.NoError(t, os.WriteFile(filepath.Join(destDir, "data.csv"), []byte("old content"), 0644))

	s := New(testLogger(t), nil)
	result, err := s.StageRecent(context.Background(), defaultTask(sourceDir, destDir))
	require.NoError(t, err)

	assert.Empty(t, result.Staged)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "collision", result.Skipped[0].Reason)

	// The existing destination is left untouched
	data, err := os.ReadFile(filepath.Join(destDir, "data.csv"))
	require.NoError(t, err)
	assert.Equal(t, "old content", string(data))
}

func TestStageRecent_MalformedNameContinuesBatch(t *testing.T) {
	sourceDir := t.TempDir()
	destDir := t.TempDir()

	writeSource(t, sourceDir, "malformed.csv", "x", time.Minute)
	writeSource(t, sourceDir, "20251201_110000_good.csv", "y", time.Minute)

	s := New(testLogger(t), nil)
	result, err := s.StageRecent(context.Background(), defaultTask(sourceDir, destDir))
	require.NoError(t, err)

	assert.Equal(t, []string{"good.csv"}, result.Staged)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "name_format", result.Skipped[0].Reason)
	assert.Equal(t, "malformed.csv", result.Skipped[0].File)
}

func TestStageRecent_MissingSourceDir(t *testing.T) {
	s := New(testLogger(t), nil)
	result, err := s.StageRecent(context.Background(), defaultTask(filepath.Join(t.TempDir(), "absent"), t.TempDir()))

	require.NoError(t, err, "unreadable source degrades to an empty result")
	assert.Empty(t, result.Staged)
	assert.Empty(t, result.Skipped)
}

func TestStageRecent_CreatesDestDir(t *testing.T) {
	sourceDir := t.TempDir()
	destDir := filepath.Join(t.TempDir(), "a", "b", "import")

	writeSource(t, sourceDir, "20251201_110000_data.csv", "x", time.Minute)

	s := New(testLogger(t), nil)
	_, err := s.StageRecent(context.Background(), defaultTask(sourceDir, destDir))
	require.NoError(t, err)

	assert.DirExists(t, destDir)
}

func TestStageRecent_IndependentPairsConcurrently(t *testing.T) {
	s := New(testLogger(t), nil)

	type pair struct{ source, dest string }
	pairs := make([]pair, 4)
	for i := range pairs {
		pairs[i] = pair{source: t.TempDir(), dest: t.TempDir()}
		writeSource(t, pairs[i].source, "20251201_110000_data.csv", "content", time.Minute)
	}

	done := make(chan error, len(pairs))
	for _, p := range pairs {
		go func(p pair) {
			_, err := s.StageRecent(context.Background(), defaultTask(p.source, p.dest))
			done <- err
		}(p)
	}

	for range pairs {
		require.NoError(t, <-done)
	}

	for _, p := range pairs {
		assert.FileExists(t, filepath.Join(p.dest, "data.csv"))
	}
}

func TestSameContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	c := filepath.Join(dir, "c")
	require.NoError(t, os.WriteFile(a, []byte("same"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("same"), 0644))
	require.NoError(t, os.WriteFile(c, []byte("diff"), 0644))

	same, err := sameContent(a, b)
	require.NoError(t, err)
	assert.True(t, same)

	same, err = sameContent(a, c)
	require.NoError(t, err)
	assert.False(t, same)
}
