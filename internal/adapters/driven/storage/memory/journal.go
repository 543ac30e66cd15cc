// Package memory provides in-memory implementations of driven port
// interfaces, used in tests and when persistence is disabled.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/bufstash/bufstash-cli/internal/core/domain"
	"github.com/bufstash/bufstash-cli/internal/core/ports/driven"
)

// Ensure Journal implements the interface.
var _ driven.PassJournal = (*Journal)(nil)

// Journal is an in-memory implementation of driven.PassJournal.
type Journal struct {
	mu      sync.RWMutex
	results map[string]domain.PassResult
}

// NewJournal creates an empty in-memory pass journal.
func NewJournal() *Journal {
	return &Journal{
		results: make(map[string]domain.PassResult),
	}
}

// Record logs a pass result.
func (j *Journal) Record(_ context.Context, result *domain.PassResult) error {
	if result == nil || result.ID == "" {
		return domain.ErrInvalidInput
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.results[result.ID] = *result
	return nil
}

// History returns recent pass results, most recent first.
func (j *Journal) History(_ context.Context, limit int) ([]domain.PassResult, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	results := make([]domain.PassResult, 0, len(j.results))
	for _, r := range j.results {
		results = append(results, r)
	}

	sort.Slice(results, func(a, b int) bool {
		return results[a].StartedAt.After(results[b].StartedAt)
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Prune removes old pass results beyond the retention limit.
func (j *Journal) Prune(_ context.Context, keep int) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.results) <= keep {
		return nil
	}

	results := make([]domain.PassResult, 0, len(j.results))
	for _, r := range j.results {
		results = append(results, r)
	}
	sort.Slice(results, func(a, b int) bool {
		return results[a].StartedAt.After(results[b].StartedAt)
	})

	for _, stale := range results[keep:] {
		delete(j.results, stale.ID)
	}
	return nil
}
