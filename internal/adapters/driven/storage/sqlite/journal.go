package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/bufstash/bufstash-cli/internal/core/domain"
	"github.com/bufstash/bufstash-cli/internal/core/ports/driven"
)

// Ensure Journal implements the interface.
var _ driven.PassJournal = (*Journal)(nil)

// Journal is a SQLite-based implementation of driven.PassJournal.
type Journal struct {
	db   *sql.DB
	path string
}

// NewJournal creates a pass journal at the specified data directory.
// If dataDir is empty, defaults to ~/.bufstash/data/journal.db.
func NewJournal(dataDir string) (*Journal, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".bufstash", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "journal.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	j := &Journal{
		db:   db,
		path: dbPath,
	}

	if err := j.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

// ensureSchema creates the pass_results table if it does not exist.
func (j *Journal) ensureSchema() error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS pass_results (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME NOT NULL,
			success INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			documents_written INTEGER NOT NULL DEFAULT 0,
			documents_failed INTEGER NOT NULL DEFAULT 0,
			target_dir TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("creating pass_results table: %w", err)
	}
	return nil
}

// Record logs a pass result.
func (j *Journal) Record(ctx context.Context, result *domain.PassResult) error {
	if result == nil || result.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO pass_results
			(id, started_at, ended_at, success, error, documents_written, documents_failed, target_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at = excluded.started_at,
			ended_at = excluded.ended_at,
			success = excluded.success,
			error = excluded.error,
			documents_written = excluded.documents_written,
			documents_failed = excluded.documents_failed,
			target_dir = excluded.target_dir
	`, result.ID, result.StartedAt, result.EndedAt, result.Success, result.Error,
		result.DocumentsWritten, result.DocumentsFailed, result.TargetDir)

	if err != nil {
		return fmt.Errorf("recording pass result: %w", err)
	}
	return nil
}

// History returns recent pass results, most recent first.
func (j *Journal) History(ctx context.Context, limit int) ([]domain.PassResult, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, started_at, ended_at, success, error, documents_written, documents_failed, target_dir
		FROM pass_results
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying pass results: %w", err)
	}
	defer rows.Close()

	var results []domain.PassResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var result domain.PassResult
		var startedAt, endedAt sql.NullTime
		if err := rows.Scan(&result.ID, &startedAt, &endedAt, &result.Success,
			&result.Error, &result.DocumentsWritten, &result.DocumentsFailed,
			&result.TargetDir); err != nil {
			return nil, fmt.Errorf("scanning pass result: %w", err)
		}
		if startedAt.Valid {
			result.StartedAt = startedAt.Time
		}
		if endedAt.Valid {
			result.EndedAt = endedAt.Time
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pass results: %w", err)
	}

	return results, nil
}

// Prune removes old pass results beyond the retention limit.
func (j *Journal) Prune(ctx context.Context, keep int) error {
	_, err := j.db.ExecContext(ctx, `
		DELETE FROM pass_results
		WHERE id NOT IN (
			SELECT id FROM pass_results ORDER BY started_at DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning pass results: %w", err)
	}
	return nil
}
