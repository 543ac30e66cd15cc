package driving

import (
	"context"

	"github.com/bufstash/bufstash-cli/internal/core/domain"
)

// BackupRunner executes a single backup pass on demand.
// The periodic scheduler and the one-shot CLI command share it.
type BackupRunner interface {
	// RunPass captures modified documents and persists them.
	// A pass with zero modified documents creates no directories and
	// writes nothing.
	RunPass(ctx context.Context) (*domain.PassResult, error)

	// Location resolves the backup directory this process writes into,
	// allocating it on first use.
	Location(ctx context.Context) (string, error)
}
