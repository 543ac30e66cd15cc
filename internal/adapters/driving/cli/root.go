// Package cli implements the bufstash command-line interface.
// Commands are thin: they wire adapters to core services and translate
// results for the terminal.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bufstash/bufstash-cli/internal/adapters/driven/config/file"
	"github.com/bufstash/bufstash-cli/internal/adapters/driven/source/scratch"
	"github.com/bufstash/bufstash-cli/internal/adapters/driven/storage/sqlite"
	"github.com/bufstash/bufstash-cli/internal/core/domain"
	"github.com/bufstash/bufstash-cli/internal/core/ports/driven"
	"github.com/bufstash/bufstash-cli/internal/core/ports/driving"
	"github.com/bufstash/bufstash-cli/internal/core/services"
	"github.com/bufstash/bufstash-cli/internal/logger"
)

// Wired services. Tests inject mocks here; wire() fills them for real runs.
var (
	version = "dev"

	settings        domain.Settings
	backupRunner    driving.BackupRunner
	backupScheduler driving.Scheduler
	passJournal     driven.PassJournal
)

var (
	flagConfigDir string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "bufstash",
	Short: "Crash-safe backup of unsaved editor buffers",
	Long: `bufstash periodically snapshots modified editor buffers into a
date-partitioned backup tree, so unsaved work survives a crash.

Each process claims its own uniquely numbered backup directory; multiple
editors sharing one backup root never collide.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config", "", "config directory (default ~/.bufstash)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the CLI with the given build version.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}

// wire builds the service graph from the settings file.
// A no-op when a runner is already present (tests inject mocks).
func wire() error {
	if backupRunner != nil {
		return nil
	}

	store, err := file.NewSettingsStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("opening settings store: %w", err)
	}
	settings, err = store.Load()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	logger.SetVerbose(settings.Verbose || flagVerbose)
	logger.Debug("settings loaded from %s", store.Path())

	dataDir := ""
	if flagConfigDir != "" {
		dataDir = filepath.Join(flagConfigDir, "data")
	}
	journal, err := sqlite.NewJournal(dataDir)
	if err != nil {
		return fmt.Errorf("opening pass journal: %w", err)
	}
	passJournal = journal

	source, err := scratch.New(settings.WatchDir)
	if err != nil {
		return fmt.Errorf("opening scratch source: %w", err)
	}

	writer := services.NewWriter(settings.ScriptExtension)
	cache := services.NewLocationCache(
		settings.BackupRoot,
		settings.DateLayout,
		services.NewAllocator(settings.InstancePrefix),
	)

	backupRunner = services.NewBackupService(
		source,
		cache,
		writer,
		passJournal,
		settings.FilterMode(),
		settings.HistoryKeep,
	)

	backupScheduler = services.NewPeriodicScheduler(services.SchedulerConfig{
		Interval:        settings.RefreshInterval,
		InitialDelay:    settings.InitialDelay,
		StopOnError:     settings.StopOnError,
		KeyboardOnError: settings.KeyboardOnError,
	}, backupRunner, writer.Cleanup)

	return nil
}
