package driving

import "context"

// Scheduler drives periodic backup passes on a fixed-rate schedule.
type Scheduler interface {
	// Start begins firing backup passes.
	// Blocks until context is cancelled, Stop is called, or a pass
	// fails with stop-on-error configured.
	Start(ctx context.Context) error

	// Stop gracefully stops future passes and runs cleanup.
	Stop() error
}
