// Package file provides file-based configuration for bufstash.
//
// Adapters:
//   - SettingsStore: TOML-based settings storage
package file
