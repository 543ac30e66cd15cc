package scratch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufstash/bufstash-cli/internal/core/domain"
)

func newTestSource(t *testing.T) (*Source, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, dir
}

// listPaths polls until the source reports exactly the expected paths.
func listPaths(t *testing.T, s *Source, want int) []domain.DocumentSnapshot {
	t.Helper()
	var snapshots []domain.DocumentSnapshot
	require.Eventually(t, func() bool {
		var err error
		snapshots, err = s.ListModified(context.Background())
		return err == nil && len(snapshots) == want
	}, 3*time.Second, 10*time.Millisecond)
	return snapshots
}

func TestListModified_EmptyDirectory(t *testing.T) {
	s, _ := newTestSource(t)

	snapshots, err := s.ListModified(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshots)
}

func TestListModified_PicksUpNewSpillFiles(t *testing.T) {
	s, dir := newTestSource(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "untitled-1"), []byte("draft"), 0600))

	snapshots := listPaths(t, s, 1)
	assert.Equal(t, "untitled-1", snapshots[0].Path)
	assert.Equal(t, "draft", string(snapshots[0].Content))
	assert.True(t, snapshots[0].Modified)
	assert.True(t, snapshots[0].IsUntitled())
}

func TestListModified_SeedsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "leftover"), []byte("old draft"), 0600))

	s, err := New(dir)
	require.NoError(t, err)
	defer s.Close()

	snapshots, err := s.ListModified(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, "leftover", snapshots[0].Path)
}

func TestListModified_NestedFilesArePathQualified(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "project"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project", "notes.md"), []byte("x"), 0600))

	s, err := New(dir)
	require.NoError(t, err)
	defer s.Close()

	snapshots, err := s.ListModified(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, filepath.Join("project", "notes.md"), snapshots[0].Path)
	assert.False(t, snapshots[0].IsUntitled())
}

func TestListModified_RemovedFileDropsOut(t *testing.T) {
	s, dir := newTestSource(t)

	path := filepath.Join(dir, "untitled-1")
	require.NoError(t, os.WriteFile(path, []byte("draft"), 0600))
	listPaths(t, s, 1)

	require.NoError(t, os.Remove(path))

	require.Eventually(t, func() bool {
		snapshots, err := s.ListModified(context.Background())
		return err == nil && len(snapshots) == 0
	}, 3*time.Second, 10*time.Millisecond)
}

func TestListModified_IgnoresDotFiles(t *testing.T) {
	s, dir := newTestSource(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".swp-tempfile"), []byte("x"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "real"), []byte("x"), 0600))

	snapshots := listPaths(t, s, 1)
	assert.Equal(t, "real", snapshots[0].Path)
}

func TestListModified_AfterCloseReportsUnavailable(t *testing.T) {
	s, _ := newTestSource(t)
	require.NoError(t, s.Close())

	_, err := s.ListModified(context.Background())
	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

	// Closing twice is a no-op.
	assert.NoError(t, s.Close())
}
