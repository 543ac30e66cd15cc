package services

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bufstash/bufstash-cli/internal/core/domain"
	"github.com/bufstash/bufstash-cli/internal/logger"
)

const (
	// allocateMaxAttempts bounds the worst-case cost under contention.
	allocateMaxAttempts = 10

	// Jitter window applied before each scan to desynchronise
	// concurrent processes racing to allocate at the same moment.
	jitterMin = 10 * time.Millisecond
	jitterMax = 150 * time.Millisecond
)

// Allocator claims a unique, never-before-used instance directory under a
// backup root. Safety under cross-process contention relies solely on the
// filesystem's atomic fail-if-exists directory creation - no lock files.
type Allocator struct {
	prefix string

	// jitter produces the pre-scan sleep. Replaceable in tests.
	jitter func() time.Duration
}

// NewAllocator creates an allocator for directories named <prefix><N>.
func NewAllocator(prefix string) *Allocator {
	return &Allocator{
		prefix: prefix,
		jitter: randomJitter,
	}
}

// Allocate claims a new instance directory under root and returns its path.
// It scans existing entries, takes the highest numeric suffix plus one, and
// attempts a fail-if-exists create. Losing the race to another process
// triggers a rescan, up to the retry budget. Returns an error wrapping
// domain.ErrAllocationExhausted when the budget runs out.
func (a *Allocator) Allocate(root string) (string, error) {
	for attempt := 1; attempt <= allocateMaxAttempts; attempt++ {
		time.Sleep(a.jitter())

		next, err := a.nextNumber(root)
		if err != nil {
			return "", fmt.Errorf("scanning %s: %w", root, err)
		}

		path := filepath.Join(root, a.prefix+strconv.Itoa(next))
		err = os.Mkdir(path, 0700)
		if err == nil {
			logger.Debug("allocator: claimed %s on attempt %d", path, attempt)
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("creating %s: %w", path, err)
		}

		// Another process won the race for this number.
		logger.Debug("allocator: %s already claimed, retrying", path)
	}

	return "", fmt.Errorf("%w: root %s contains [%s]",
		domain.ErrAllocationExhausted, root, strings.Join(a.listing(root), ", "))
}

// nextNumber returns max(existing numeric suffixes) + 1, or 1 when the root
// holds no matching entries. Malformed or non-positive suffixes are ignored.
func (a *Allocator) nextNumber(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, err
	}

	highest := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, a.prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(name, a.prefix))
		if err != nil || n <= 0 {
			continue
		}
		if n > highest {
			highest = n
		}
	}

	return highest + 1, nil
}

// listing returns the root's current entry names for diagnostics.
func (a *Allocator) listing(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return []string{fmt.Sprintf("unreadable: %v", err)}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

// randomJitter picks a duration uniformly within the jitter window.
func randomJitter() time.Duration {
	return jitterMin + rand.N(jitterMax-jitterMin)
}
