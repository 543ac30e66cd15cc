// Package scratch implements a document source backed by a directory of
// editor buffer spill files. The editor writes each unsaved buffer to a
// file under the scratch directory and removes it once the buffer is saved
// or closed; this source watches the directory and reports the files still
// present as modified documents.
package scratch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bufstash/bufstash-cli/internal/core/domain"
	"github.com/bufstash/bufstash-cli/internal/core/ports/driven"
	"github.com/bufstash/bufstash-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Source watches a scratch directory for buffer spill files.
// Files directly under the directory count as untitled buffers; files in
// subdirectories carry their relative path and are treated as
// path-qualified documents.
type Source struct {
	dir     string
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	dirty  map[string]struct{}
	closed bool
}

// New creates a source watching dir, creating the directory if absent.
// Spill files already present at startup are reported as modified.
func New(dir string) (*Source, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	s := &Source{
		dir:     dir,
		watcher: watcher,
		dirty:   make(map[string]struct{}),
	}

	if err := s.seed(); err != nil {
		watcher.Close()
		return nil, err
	}

	go s.loop()
	return s, nil
}

// seed watches dir and its subdirectories and marks existing spill files
// as dirty.
func (s *Source) seed() error {
	return filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return s.watcher.Add(path)
		}
		if rel, ok := s.relative(path); ok {
			s.mu.Lock()
			s.dirty[rel] = struct{}{}
			s.mu.Unlock()
		}
		return nil
	})
}

// loop consumes watcher events until the watcher closes.
func (s *Source) loop() {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handle(event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("scratch: watch error: %v", err)
		}
	}
}

// handle updates the dirty set for a single filesystem event.
func (s *Source) handle(event fsnotify.Event) {
	rel, ok := s.relative(event.Name)
	if !ok {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			// New subdirectory: watch it too.
			if err := s.watcher.Add(event.Name); err != nil {
				logger.Warn("scratch: watching %s: %v", event.Name, err)
			}
			return
		}
		s.mark(rel)
	case event.Has(fsnotify.Write):
		s.mark(rel)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		s.mu.Lock()
		delete(s.dirty, rel)
		s.mu.Unlock()
	}
}

// mark flags a spill file as dirty.
func (s *Source) mark(rel string) {
	s.mu.Lock()
	s.dirty[rel] = struct{}{}
	s.mu.Unlock()
	logger.Debug("scratch: %s modified", rel)
}

// relative converts an absolute event path to the source's document path.
// Hidden files and editor temp files (dot-prefixed) are ignored.
func (s *Source) relative(path string) (string, bool) {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil || rel == "." {
		return "", false
	}
	if strings.HasPrefix(filepath.Base(rel), ".") {
		return "", false
	}
	return rel, true
}

// ListModified snapshots all spill files currently marked dirty.
// Files removed since the last event are dropped from the dirty set.
func (s *Source) ListModified(_ context.Context) ([]domain.DocumentSnapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, domain.ErrSourceUnavailable
	}
	paths := make([]string, 0, len(s.dirty))
	for rel := range s.dirty {
		paths = append(paths, rel)
	}
	s.mu.Unlock()

	sort.Strings(paths)

	now := time.Now()
	snapshots := make([]domain.DocumentSnapshot, 0, len(paths))
	for _, rel := range paths {
		content, err := os.ReadFile(filepath.Join(s.dir, rel))
		if err != nil {
			if os.IsNotExist(err) {
				// Saved or closed between the event and the pass.
				s.mu.Lock()
				delete(s.dirty, rel)
				s.mu.Unlock()
				continue
			}
			logger.Warn("scratch: reading %s: %v", rel, err)
			continue
		}
		snapshots = append(snapshots, domain.DocumentSnapshot{
			Path:       rel,
			Content:    content,
			Modified:   true,
			CapturedAt: now,
		})
	}

	return snapshots, nil
}

// Close stops watching. Subsequent ListModified calls report the source
// as unavailable.
func (s *Source) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return s.watcher.Close()
}
