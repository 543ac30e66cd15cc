package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bufstash/bufstash-cli/internal/core/domain"
)

// fileSettings mirrors domain.Settings with TOML tags and durations
// expressed in seconds, the way they appear in the config file.
type fileSettings struct {
	RefreshIntervalSeconds int    `toml:"refresh_interval_seconds"`
	InitialDelaySeconds    int    `toml:"initial_delay_seconds"`
	BackupRoot             string `toml:"backup_root"`
	DateLayout             string `toml:"date_layout"`
	InstancePrefix         string `toml:"instance_prefix"`
	ScriptExtension        string `toml:"script_extension"`
	OnlyUntitled           bool   `toml:"only_untitled"`
	StopOnError            bool   `toml:"stop_on_error"`
	KeyboardOnError        bool   `toml:"keyboard_on_error"`
	Verbose                bool   `toml:"verbose"`
	HistoryKeep            int    `toml:"history_keep"`
	WatchDir               string `toml:"watch_dir"`
}

// SettingsStore loads and saves settings from a TOML file within the
// bufstash config directory.
type SettingsStore struct {
	mu       sync.Mutex
	filePath string
	baseDir  string
}

// NewSettingsStore creates a TOML-based settings store.
// If configDir is empty, defaults to ~/.bufstash/config.toml.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".bufstash")
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
		baseDir:  configDir,
	}, nil
}

// Load reads settings from the TOML file. A missing file yields defaults.
// Fields absent from the file keep their default values, and empty paths
// are resolved under the config directory.
func (s *SettingsStore) Load() (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := domain.DefaultSettings()

	data, err := os.ReadFile(s.filePath)
	if err != nil && !os.IsNotExist(err) {
		return domain.Settings{}, fmt.Errorf("reading %s: %w", s.filePath, err)
	}

	if err == nil {
		fs := toFile(settings)
		if err := toml.Unmarshal(data, &fs); err != nil {
			return domain.Settings{}, fmt.Errorf("parsing %s: %w", s.filePath, err)
		}
		settings = fromFile(fs)
	}

	if settings.BackupRoot == "" {
		settings.BackupRoot = filepath.Join(s.baseDir, "backups")
	}
	if settings.WatchDir == "" {
		settings.WatchDir = filepath.Join(s.baseDir, "scratch")
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("invalid settings in %s: %w", s.filePath, err)
	}
	return settings, nil
}

// Save persists settings to the TOML file.
func (s *SettingsStore) Save(settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := toml.Marshal(toFile(settings))
	if err != nil {
		return fmt.Errorf("marshalling settings: %w", err)
	}

	// Write with restricted permissions
	return os.WriteFile(s.filePath, data, 0600)
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

func toFile(s domain.Settings) fileSettings {
	return fileSettings{
		RefreshIntervalSeconds: int(s.RefreshInterval / time.Second),
		InitialDelaySeconds:    int(s.InitialDelay / time.Second),
		BackupRoot:             s.BackupRoot,
		DateLayout:             s.DateLayout,
		InstancePrefix:         s.InstancePrefix,
		ScriptExtension:        s.ScriptExtension,
		OnlyUntitled:           s.OnlyUntitled,
		StopOnError:            s.StopOnError,
		KeyboardOnError:        s.KeyboardOnError,
		Verbose:                s.Verbose,
		HistoryKeep:            s.HistoryKeep,
		WatchDir:               s.WatchDir,
	}
}

func fromFile(f fileSettings) domain.Settings {
	return domain.Settings{
		RefreshInterval: time.Duration(f.RefreshIntervalSeconds) * time.Second,
		InitialDelay:    time.Duration(f.InitialDelaySeconds) * time.Second,
		BackupRoot:      f.BackupRoot,
		DateLayout:      f.DateLayout,
		InstancePrefix:  f.InstancePrefix,
		ScriptExtension: f.ScriptExtension,
		OnlyUntitled:    f.OnlyUntitled,
		StopOnError:     f.StopOnError,
		KeyboardOnError: f.KeyboardOnError,
		Verbose:         f.Verbose,
		HistoryKeep:     f.HistoryKeep,
		WatchDir:        f.WatchDir,
	}
}
