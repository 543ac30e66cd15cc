package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestCache pins the clock so the date partition is stable.
func newTestCache(root string) *LocationCache {
	c := NewLocationCache(root, "2006-01-02", newTestAllocator("run"))
	c.now = func() time.Time {
		return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	}
	return c
}

func TestResolve_AllocatesUnderDatePartition(t *testing.T) {
	root := t.TempDir()
	c := newTestCache(root)

	path, err := c.Resolve()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "2026-03-14", "run1"), path)
	assert.DirExists(t, path)
}

func TestResolve_IsIdempotent(t *testing.T) {
	root := t.TempDir()
	c := newTestCache(root)

	first, err := c.Resolve()
	require.NoError(t, err)
	second, err := c.Resolve()
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// No second instance directory appeared.
	entries, err := os.ReadDir(filepath.Join(root, "2026-03-14"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestResolve_RecreatesSamePathAfterExternalDelete(t *testing.T) {
	root := t.TempDir()
	c := newTestCache(root)

	first, err := c.Resolve()
	require.NoError(t, err)

	// Simulate external cleanup removing the claimed directory.
	require.NoError(t, os.RemoveAll(first))

	second, err := c.Resolve()
	require.NoError(t, err)

	// Identical path, not a re-numbered one.
	assert.Equal(t, first, second)
	assert.DirExists(t, second)
}

func TestInvalidate_ForcesFreshAllocation(t *testing.T) {
	root := t.TempDir()
	c := newTestCache(root)

	first, err := c.Resolve()
	require.NoError(t, err)

	c.Invalidate()

	second, err := c.Resolve()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, filepath.Join(root, "2026-03-14", "run2"), second)
}

func TestResolve_SharedRootAcrossProcesses(t *testing.T) {
	root := t.TempDir()

	// Two caches stand in for two independent processes sharing the
	// same backup root on the same day.
	first, err := newTestCache(root).Resolve()
	require.NoError(t, err)
	second, err := newTestCache(root).Resolve()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, filepath.Join(root, "2026-03-14", "run1"), first)
	assert.Equal(t, filepath.Join(root, "2026-03-14", "run2"), second)
}
