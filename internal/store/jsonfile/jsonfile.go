package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"khata/internal/core"
)

const (
	ledgerFile = "ledger.json"
	goalsFile  = "goals.json"
)

// Store persists both collections as flat JSON files in a data directory.
// Files are written with two-space indentation and raw UTF-8 so the emoji
// in advice-adjacent text stay readable when the files are opened by hand.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New ensures the data directory and both files exist, creating empty
// collections on first run.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: dir}
	if err := s.initFile(ledgerFile, []core.Entry{}); err != nil {
		return nil, err
	}
	if err := s.initFile(goalsFile, []core.Goal{}); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the data directory the store writes into.
func (s *Store) Dir() string {
	return s.dir
}

// LoadEntries reads the whole ledger file.
func (s *Store) LoadEntries(_ context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []core.Entry
	if err := s.readFile(ledgerFile, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveEntries replaces the ledger file contents.
func (s *Store) SaveEntries(_ context.Context, entries []core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entries == nil {
		entries = []core.Entry{}
	}
	return s.writeFile(ledgerFile, entries)
}

// LoadGoals reads the whole goals file.
func (s *Store) LoadGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var goals []core.Goal
	if err := s.readFile(goalsFile, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// SaveGoals replaces the goals file contents.
func (s *Store) SaveGoals(_ context.Context, goals []core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if goals == nil {
		goals = []core.Goal{}
	}
	return s.writeFile(goalsFile, goals)
}

func (s *Store) initFile(name string, empty any) error {
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", name, err)
	}
	return s.writeFile(name, empty)
}

func (s *Store) readFile(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// writeFile writes to a temp file and renames it into place, so a reader
// in another process never sees a half-written collection.
func (s *Store) writeFile(name string, v any) error {
	f, err := os.CreateTemp(s.dir, name+".tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	tmp := f.Name()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
