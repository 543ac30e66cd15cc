package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bufstash/bufstash-cli/internal/core/domain"
	"github.com/bufstash/bufstash-cli/internal/core/ports/driven"
	"github.com/bufstash/bufstash-cli/internal/core/ports/driving"
	"github.com/bufstash/bufstash-cli/internal/logger"
)

// Ensure BackupService implements the interface.
var _ driving.BackupRunner = (*BackupService)(nil)

// BackupService runs one backup pass: pull modified-document snapshots
// from the source, resolve the backup location, and persist them.
// The periodic scheduler and the one-shot CLI command both drive it.
type BackupService struct {
	source      driven.DocumentSource
	cache       *LocationCache
	writer      *Writer
	journal     driven.PassJournal // optional, may be nil
	filter      domain.FilterMode
	historyKeep int
}

// NewBackupService creates a backup service. journal may be nil, in which
// case passes leave no history.
func NewBackupService(
	source driven.DocumentSource,
	cache *LocationCache,
	writer *Writer,
	journal driven.PassJournal,
	filter domain.FilterMode,
	historyKeep int,
) *BackupService {
	return &BackupService{
		source:      source,
		cache:       cache,
		writer:      writer,
		journal:     journal,
		filter:      filter,
		historyKeep: historyKeep,
	}
}

// RunPass executes a single backup pass and records its outcome.
// An unavailable document source makes the pass a successful no-op.
func (s *BackupService) RunPass(ctx context.Context) (*domain.PassResult, error) {
	result := &domain.PassResult{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	err := s.runPass(ctx, result)

	result.EndedAt = time.Now().UTC()
	if err != nil {
		result.Success = false
		result.Error = err.Error()
	} else {
		result.Success = true
	}

	s.record(ctx, result)
	return result, err
}

// Location resolves the backup directory this process writes into.
func (s *BackupService) Location(_ context.Context) (string, error) {
	return s.cache.Resolve()
}

// runPass holds the pass logic; RunPass wraps it with result bookkeeping.
func (s *BackupService) runPass(ctx context.Context, result *domain.PassResult) error {
	snapshots, err := s.source.ListModified(ctx)
	if errors.Is(err, domain.ErrSourceUnavailable) {
		logger.Debug("backup: document source unavailable, nothing to back up")
		return nil
	}
	if err != nil {
		return fmt.Errorf("listing modified documents: %w", err)
	}

	pending := make([]domain.DocumentSnapshot, 0, len(snapshots))
	for _, snapshot := range snapshots {
		if snapshot.Modified && s.filter.Accepts(snapshot) {
			pending = append(pending, snapshot)
		}
	}

	// No modified documents: no directory is created, nothing is written.
	if len(pending) == 0 {
		logger.Debug("backup: no modified documents")
		return nil
	}

	dir, err := s.cache.Resolve()
	if err != nil {
		return fmt.Errorf("resolving backup location: %w", err)
	}
	result.TargetDir = dir

	written, failures := s.writer.WriteAll(dir, pending, s.filter)
	result.DocumentsWritten = written
	result.DocumentsFailed = len(failures)

	logger.Info("backup: wrote %d document(s) to %s (%d failed)", written, dir, len(failures))
	return nil
}

// record journals the pass result and prunes old history. Best effort.
func (s *BackupService) record(ctx context.Context, result *domain.PassResult) {
	if s.journal == nil {
		return
	}

	if err := s.journal.Record(ctx, result); err != nil {
		logger.Warn("backup: failed to record pass result: %v", err)
		return
	}
	if s.historyKeep > 0 {
		if err := s.journal.Prune(ctx, s.historyKeep); err != nil {
			logger.Warn("backup: failed to prune pass history: %v", err)
		}
	}
}
