package driven

import (
	"context"

	"github.com/bufstash/bufstash-cli/internal/core/domain"
)

// DocumentSource supplies point-in-time snapshots of editor buffers.
// It abstracts the host editor's document registry so core never
// depends on a process-wide singleton.
type DocumentSource interface {
	// ListModified returns snapshots of all buffers with unsaved
	// changes at the time of the call.
	// Returns domain.ErrSourceUnavailable (possibly wrapped) when the
	// host document subsystem is not reachable; callers treat that as
	// "nothing to back up" for the current pass.
	ListModified(ctx context.Context) ([]domain.DocumentSnapshot, error)
}
