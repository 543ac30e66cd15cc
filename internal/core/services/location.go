package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bufstash/bufstash-cli/internal/logger"
)

// LocationCache memoizes the instance directory allocated for this process
// so repeated backup passes reuse the same location without re-running
// allocation. The cache lives for the process lifetime; it is never
// persisted.
type LocationCache struct {
	root       string
	dateLayout string
	allocator  *Allocator

	// now is replaceable in tests pinning the date partition.
	now func() time.Time

	mu     sync.Mutex
	cached string
}

// NewLocationCache creates a cache allocating under root's date partition.
func NewLocationCache(root, dateLayout string, allocator *Allocator) *LocationCache {
	return &LocationCache{
		root:       root,
		dateLayout: dateLayout,
		allocator:  allocator,
		now:        time.Now,
	}
}

// Resolve returns this process's backup directory, allocating it on first
// use. The date partition under the root is created lazily. If the cached
// directory was deleted externally, the identical path is re-created rather
// than a new number allocated - only the directory's existence was lost,
// not its identity.
func (c *LocationCache) Resolve() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != "" {
		if err := os.MkdirAll(c.cached, 0700); err != nil {
			return "", fmt.Errorf("re-creating %s: %w", c.cached, err)
		}
		return c.cached, nil
	}

	dateRoot := filepath.Join(c.root, c.now().Format(c.dateLayout))
	if err := os.MkdirAll(dateRoot, 0700); err != nil {
		return "", fmt.Errorf("creating backup root %s: %w", dateRoot, err)
	}

	path, err := c.allocator.Allocate(dateRoot)
	if err != nil {
		return "", err
	}

	c.cached = path
	logger.Info("backup location resolved: %s", path)
	return path, nil
}

// Invalidate clears the cached location so the next Resolve allocates
// afresh.
func (c *LocationCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = ""
}
