package driven

import (
	"context"

	"github.com/bufstash/bufstash-cli/internal/core/domain"
)

// PassJournal persists the outcome of backup passes.
// It stores results for inspection and prunes old history.
type PassJournal interface {
	// Record logs a pass result.
	Record(ctx context.Context, result *domain.PassResult) error

	// History returns recent pass results.
	// Results are ordered by start time descending (most recent first).
	History(ctx context.Context, limit int) ([]domain.PassResult, error)

	// Prune removes old pass results beyond the retention limit.
	// Keeps the most recent 'keep' results.
	Prune(ctx context.Context, keep int) error
}
