package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// DocumentSnapshot is an immutable point-in-time copy of an editor buffer,
// captured at the moment of a backup pass. It is a copy, never a live
// reference to the buffer.
type DocumentSnapshot struct {
	// Path is the buffer's source path as reported by the document source.
	// Untitled buffers carry a bare name with no directory component.
	Path string

	// Content is the buffer content at capture time.
	Content []byte

	// Modified indicates the buffer has unsaved changes.
	Modified bool

	// CapturedAt is when the snapshot was taken.
	CapturedAt time.Time
}

// IsUntitled returns true if the snapshot comes from an unsaved buffer,
// i.e. its path has no directory component.
func (s DocumentSnapshot) IsUntitled() bool {
	cleaned := filepath.ToSlash(s.Path)
	return !strings.Contains(cleaned, "/")
}

// BaseName returns the file name portion of the snapshot's path.
func (s DocumentSnapshot) BaseName() string {
	return filepath.Base(s.Path)
}

// FilterMode controls which snapshots a backup pass persists.
type FilterMode string

// Available filter modes.
const (
	// FilterAll persists every modified document.
	FilterAll FilterMode = "all"

	// FilterUntitledOnly persists only untitled (never-saved) buffers.
	FilterUntitledOnly FilterMode = "untitled_only"
)

// IsValid returns true if the filter mode is recognised.
func (m FilterMode) IsValid() bool {
	switch m {
	case FilterAll, FilterUntitledOnly:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m FilterMode) String() string {
	return string(m)
}

// Accepts returns true if the snapshot passes this filter.
func (m FilterMode) Accepts(s DocumentSnapshot) bool {
	if m == FilterUntitledOnly {
		return s.IsUntitled()
	}
	return true
}
