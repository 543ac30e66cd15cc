package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufstash/bufstash-cli/internal/core/domain"
)

// newTestAllocator returns an allocator with jitter disabled so tests
// stay fast and deterministic.
func newTestAllocator(prefix string) *Allocator {
	a := NewAllocator(prefix)
	a.jitter = func() time.Duration { return 0 }
	return a
}

func TestAllocate_EmptyRoot(t *testing.T) {
	root := t.TempDir()
	a := newTestAllocator("run")

	path, err := a.Allocate(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "run1"), path)
	assert.DirExists(t, path)
}

func TestAllocate_TakesHighestPlusOne(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"run1", "run2", "run7"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0700))
	}

	a := newTestAllocator("run")
	path, err := a.Allocate(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "run8"), path)
}

func TestAllocate_IgnoresMalformedSuffixes(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"run1", "runabc", "run-3", "run", "other9"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0700))
	}

	a := newTestAllocator("run")
	path, err := a.Allocate(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "run2"), path)
}

func TestAllocate_IgnoresPlainFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "run3"), 0700))
	// A plain file does not count towards the next number.
	require.NoError(t, os.WriteFile(filepath.Join(root, "run9"), []byte("x"), 0600))

	a := newTestAllocator("run")
	path, err := a.Allocate(root)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "run4"), path)
}

func TestAllocate_ConcurrentCallersGetUniqueDirectories(t *testing.T) {
	root := t.TempDir()
	const callers = 6

	var wg sync.WaitGroup
	paths := make(chan string, callers)
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each caller gets its own allocator, simulating
			// independent processes racing on the same root.
			path, err := NewAllocator("run").Allocate(root)
			if err != nil {
				errs <- err
				return
			}
			paths <- path
		}()
	}
	wg.Wait()
	close(paths)
	close(errs)

	for err := range errs {
		t.Fatalf("concurrent allocation failed: %v", err)
	}

	seen := make(map[string]bool)
	for path := range paths {
		assert.False(t, seen[path], "duplicate allocation: %s", path)
		seen[path] = true
	}
	assert.Len(t, seen, callers)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, callers)
}

func TestAllocate_ExhaustsRetryBudget(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "run1"), 0700))
	// A plain file squatting on the next number collides on every
	// attempt: the scan skips it, the create hits it.
	require.NoError(t, os.WriteFile(filepath.Join(root, "run2"), []byte("x"), 0600))

	a := newTestAllocator("run")
	_, err := a.Allocate(root)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAllocationExhausted)
	// Diagnostics surface the root and its contents.
	assert.Contains(t, err.Error(), root)
	assert.Contains(t, err.Error(), "run2")
}

func TestAllocate_MissingRoot(t *testing.T) {
	a := newTestAllocator("run")
	_, err := a.Allocate(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestRandomJitter_WithinWindow(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := randomJitter()
		assert.GreaterOrEqual(t, d, jitterMin, fmt.Sprintf("iteration %d", i))
		assert.Less(t, d, jitterMax, fmt.Sprintf("iteration %d", i))
	}
}
