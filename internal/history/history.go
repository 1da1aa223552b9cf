// Package history keeps the visited-directory file used to expand partial
// directory names into frequently visited paths.
package history

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/atomicstack/term-sessionizer/internal/logging/events"
)

const (
	FileName   = "directory_history.json"
	MaxEntries = 100
)

// ErrNotFound is returned by Find when no visited directory matches.
var ErrNotFound = errors.New("no matching directory in history")

// Entry is one visited directory.
type Entry struct {
	Dir          string `json:"dir"`
	LastAccessed int64  `json:"last_accessed_timestamp"`
	Times        int    `json:"times"`
}

// LastVisit converts the stored unix timestamp.
func (e Entry) LastVisit() time.Time {
	return time.Unix(e.LastAccessed, 0)
}

type file struct {
	VisitedDirs []Entry `json:"visited_dirs"`
}

// Store reads and writes a history file.
type Store struct {
	path string
	now  func() time.Time
}

// New returns a store backed by path. An empty path selects DefaultPath.
func New(path string) *Store {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	return &Store{path: path, now: time.Now}
}

// DefaultPath is directory_history.json in the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return FileName
	}
	return filepath.Join(dir, "term-sessionizer", FileName)
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load returns all entries in file order. A missing or unreadable file
// yields an empty history.
func (s *Store) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil
	}
	return f.VisitedDirs, nil
}

// Ranked returns entries ordered by visit count, most visited first.
func (s *Store) Ranked() ([]Entry, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return b.Times - a.Times
	})
	return entries, nil
}

// Visit records a change into dir, resolved against cwd. Directories that do
// not exist are ignored and reported as false.
func (s *Store) Visit(cwd, dir string) (bool, error) {
	target := resolve(cwd, dir)
	if _, err := os.Stat(target); err != nil {
		return false, nil
	}

	entries, err := s.Load()
	if err != nil {
		return false, err
	}

	now := s.now().Unix()
	idx := slices.IndexFunc(entries, func(e Entry) bool { return e.Dir == target })
	if idx >= 0 {
		entries[idx].LastAccessed = now
		entries[idx].Times++
		events.History.Record(target, entries[idx].Times)
	} else {
		entries = append(entries, Entry{Dir: target, LastAccessed: now, Times: 1})
		events.History.Record(target, 1)
	}

	if len(entries) > MaxEntries {
		// Most visited first; on ties the stalest entry sorts last and is evicted.
		slices.SortStableFunc(entries, func(a, b Entry) int {
			if a.Times != b.Times {
				return b.Times - a.Times
			}
			return cmp.Compare(b.LastAccessed, a.LastAccessed)
		})
		for _, evicted := range entries[MaxEntries:] {
			events.History.Evict(evicted.Dir, evicted.Times)
		}
		entries = entries[:MaxEntries]
	}

	return true, s.save(entries)
}

// Find returns the most visited directory whose last path segment contains
// query, or failing that the most visited whose full path contains it.
func (s *Store) Find(query string) (string, error) {
	entries, err := s.Ranked()
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if strings.Contains(filepath.Base(e.Dir), query) {
			events.History.Expand(query, e.Dir, "segment")
			return e.Dir, nil
		}
	}
	for _, e := range entries {
		if strings.Contains(e.Dir, query) {
			events.History.Expand(query, e.Dir, "path")
			return e.Dir, nil
		}
	}
	events.History.Expand(query, "", "none")
	return "", ErrNotFound
}

// Expand resolves path for a cd: an existing path relative to cwd is kept
// as typed, otherwise the best history match is used, otherwise path itself.
func (s *Store) Expand(cwd, path string) (string, error) {
	if _, err := os.Stat(resolve(cwd, path)); err == nil {
		return path, nil
	}
	found, err := s.Find(path)
	if errors.Is(err, ErrNotFound) {
		return path, nil
	}
	if err != nil {
		return path, err
	}
	return found, nil
}

func (s *Store) save(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(file{VisitedDirs: entries})
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

func resolve(cwd, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(cwd, dir)
}
