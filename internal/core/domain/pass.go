package domain

import "time"

// PassResult records the outcome of a single backup pass (one tick).
type PassResult struct {
	// ID is the unique identifier for the pass.
	ID string

	// StartedAt is when the pass started.
	StartedAt time.Time

	// EndedAt is when the pass completed.
	EndedAt time.Time

	// Success indicates the pass completed without a fatal error.
	// Per-document write failures do not make a pass fatal.
	Success bool

	// Error contains the error message if Success is false.
	Error string

	// DocumentsWritten counts snapshots persisted to disk.
	DocumentsWritten int

	// DocumentsFailed counts snapshots whose write failed.
	DocumentsFailed int

	// TargetDir is the instance directory the pass wrote into.
	// Empty when nothing was written.
	TargetDir string
}
