package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAllocationExhausted indicates the retry budget for claiming an
	// instance directory was exceeded under concurrent contention.
	// Fatal for the backup pass that hit it.
	ErrAllocationExhausted = errors.New("instance directory allocation exhausted")

	// ErrSourceUnavailable indicates the document source is not reachable.
	// A backup pass treats this as "nothing to back up", not a hard error.
	ErrSourceUnavailable = errors.New("document source unavailable")
)
