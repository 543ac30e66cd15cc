package domain

import (
	"errors"
	"time"
)

// Settings holds all process-wide configuration for the backup service.
// Loaded from the TOML config file and consumed as plain data.
type Settings struct {
	// RefreshInterval is how often a backup pass fires.
	RefreshInterval time.Duration

	// InitialDelay is the wait before the first pass after start.
	InitialDelay time.Duration

	// BackupRoot is the root folder under which date-partitioned
	// backup directories are created.
	BackupRoot string

	// DateLayout is the Go time layout for the date partition
	// directory under BackupRoot.
	DateLayout string

	// InstancePrefix is the name prefix for per-process instance
	// directories, e.g. "run" yields run1, run2, ...
	InstancePrefix string

	// ScriptExtension is appended to every backed-up file name.
	ScriptExtension string

	// OnlyUntitled restricts backup to untitled (never-saved) buffers.
	OnlyUntitled bool

	// StopOnError stops the scheduler on the first failed pass
	// instead of continuing to the next tick.
	StopOnError bool

	// KeyboardOnError pauses for a keypress after a failed pass
	// before the error is handled.
	KeyboardOnError bool

	// Verbose enables debug logging to stderr.
	Verbose bool

	// HistoryKeep is how many pass results the journal retains.
	HistoryKeep int

	// WatchDir is the scratch directory the filesystem document
	// source watches for buffer spill files.
	WatchDir string
}

// FilterMode returns the snapshot filter implied by the settings.
func (s Settings) FilterMode() FilterMode {
	if s.OnlyUntitled {
		return FilterUntitledOnly
	}
	return FilterAll
}

// Validate checks the settings for values that cannot work.
func (s Settings) Validate() error {
	if s.RefreshInterval <= 0 {
		return errors.New("refresh interval must be positive")
	}
	if s.InitialDelay < 0 {
		return errors.New("initial delay must not be negative")
	}
	if s.BackupRoot == "" {
		return errors.New("backup root must be set")
	}
	if s.InstancePrefix == "" {
		return errors.New("instance prefix must be set")
	}
	if s.DateLayout == "" {
		return errors.New("date layout must be set")
	}
	if s.HistoryKeep < 0 {
		return errors.New("history keep must not be negative")
	}
	return nil
}

// DefaultSettings returns settings with sensible defaults.
// BackupRoot and WatchDir are resolved relative to the user's home
// directory by the config adapter when left empty.
func DefaultSettings() Settings {
	return Settings{
		RefreshInterval: 60 * time.Second,
		InitialDelay:    60 * time.Second,
		DateLayout:      "2006-01-02",
		InstancePrefix:  "run",
		ScriptExtension: ".bak.txt",
		OnlyUntitled:    true,
		StopOnError:     false,
		KeyboardOnError: false,
		Verbose:         false,
		HistoryKeep:     100,
	}
}
