package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bufstash/bufstash-cli/internal/adapters/driven/storage/memory"
	"github.com/bufstash/bufstash-cli/internal/core/domain"
)

func setupHistoryTest(t *testing.T, results ...*domain.PassResult) func() {
	t.Helper()

	journal := memory.NewJournal()
	for _, r := range results {
		if err := journal.Record(t.Context(), r); err != nil {
			t.Fatalf("seeding journal: %v", err)
		}
	}

	oldJournal := passJournal
	oldRunner := backupRunner
	passJournal = journal
	backupRunner = &mockBackupRunner{} // keeps wire() from building real services
	return func() {
		passJournal = oldJournal
		backupRunner = oldRunner
	}
}

func TestHistoryCmd_Use(t *testing.T) {
	assert.Equal(t, "history", historyCmd.Use)
}

func TestHistoryCmd_EmptyJournal(t *testing.T) {
	cleanup := setupHistoryTest(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"history"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "No backup passes recorded yet.")
}

func TestHistoryCmd_ListsPasses(t *testing.T) {
	cleanup := setupHistoryTest(t,
		&domain.PassResult{
			ID:               "a",
			StartedAt:        time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
			EndedAt:          time.Date(2026, 3, 14, 10, 0, 1, 0, time.UTC),
			Success:          true,
			DocumentsWritten: 2,
			TargetDir:        "/backups/2026-03-14/run1",
		},
		&domain.PassResult{
			ID:        "b",
			StartedAt: time.Date(2026, 3, 14, 10, 1, 0, 0, time.UTC),
			EndedAt:   time.Date(2026, 3, 14, 10, 1, 1, 0, time.UTC),
			Success:   false,
			Error:     "disk full",
		},
	)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"history"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "wrote 2")
	assert.Contains(t, buf.String(), "/backups/2026-03-14/run1")
	assert.Contains(t, buf.String(), "FAILED: disk full")
}
