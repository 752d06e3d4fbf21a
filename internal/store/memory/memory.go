package memory

import (
	"context"
	"sync"

	"khata/internal/core"
)

// Store keeps both collections in process memory. Useful for tests and for
// running without any files on disk; contents vanish on restart.
type Store struct {
	mu      sync.Mutex
	entries []core.Entry
	goals   []core.Goal
}

func New() *Store {
	return &Store{}
}

// NewSeeded returns a store preloaded with the given collections.
func NewSeeded(entries []core.Entry, goals []core.Goal) *Store {
	return &Store{
		entries: append([]core.Entry(nil), entries...),
		goals:   append([]core.Goal(nil), goals...),
	}
}

// LoadEntries returns a copy of the stored entries.
func (s *Store) LoadEntries(_ context.Context) ([]core.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Entry(nil), s.entries...), nil
}

// SaveEntries replaces the stored entries.
func (s *Store) SaveEntries(_ context.Context, entries []core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]core.Entry(nil), entries...)
	return nil
}

// LoadGoals returns a copy of the stored goals.
func (s *Store) LoadGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal(nil), s.goals...), nil
}

// SaveGoals replaces the stored goals.
func (s *Store) SaveGoals(_ context.Context, goals []core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = append([]core.Goal(nil), goals...)
	return nil
}
