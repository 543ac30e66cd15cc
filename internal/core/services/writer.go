package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bufstash/bufstash-cli/internal/core/domain"
	"github.com/bufstash/bufstash-cli/internal/logger"
)

// WriteFailure reports a single document that could not be persisted.
type WriteFailure struct {
	// Path is the source path of the failed snapshot.
	Path string

	// Err is the underlying write error.
	Err error
}

// Error implements the error interface.
func (f WriteFailure) Error() string {
	return fmt.Sprintf("backing up %s: %v", f.Path, f.Err)
}

// Unwrap returns the underlying error.
func (f WriteFailure) Unwrap() error {
	return f.Err
}

// Writer persists document snapshots into a target directory, isolating
// per-file failures so one bad document never aborts the batch. It tracks
// the handle currently being written so the scheduler's stop or fault path
// can force-close a handle left open by a pass that never finished.
type Writer struct {
	extension string

	mu   sync.Mutex
	open *os.File
}

// NewWriter creates a writer appending extension to every backed-up file.
func NewWriter(extension string) *Writer {
	return &Writer{extension: extension}
}

// WriteAll writes each snapshot to dir as <baseName><extension>, best
// effort. Snapshots rejected by the filter mode are skipped silently.
// Returns the number of files written and the per-document failures.
func (w *Writer) WriteAll(dir string, snapshots []domain.DocumentSnapshot, mode domain.FilterMode) (int, []WriteFailure) {
	written := 0
	var failures []WriteFailure

	for _, snapshot := range snapshots {
		if !mode.Accepts(snapshot) {
			logger.Debug("writer: skipping %s (filtered)", snapshot.Path)
			continue
		}

		if err := w.writeOne(dir, snapshot); err != nil {
			failure := WriteFailure{Path: snapshot.Path, Err: err}
			logger.Error("writer: %v", failure)
			failures = append(failures, failure)
			continue
		}
		written++
	}

	return written, failures
}

// writeOne persists a single snapshot. The file handle is tracked for the
// duration of the write and released on every exit path.
func (w *Writer) writeOne(dir string, snapshot domain.DocumentSnapshot) (err error) {
	dest := filepath.Join(dir, snapshot.BaseName()+w.extension)

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("opening %s: %w", dest, err)
	}
	w.track(f)
	defer func() {
		w.untrack(f)
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", dest, cerr)
		}
	}()

	if _, err := f.Write(snapshot.Content); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}

	logger.Debug("writer: backed up %s -> %s", snapshot.Path, dest)
	return nil
}

// Cleanup force-closes a handle left open by a write that never completed.
// Safe to call at any time; failures are logged, never escalated.
func (w *Writer) Cleanup() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.open == nil {
		return
	}

	logger.Warn("writer: force-closing dangling handle %s", w.open.Name())
	if err := w.open.Close(); err != nil {
		logger.Error("writer: cleanup: %v", err)
	}
	w.open = nil
}

// track records f as the handle currently being written.
func (w *Writer) track(f *os.File) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.open = f
}

// untrack clears the tracked handle if it is still f.
func (w *Writer) untrack(f *os.File) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.open == f {
		w.open = nil
	}
}
