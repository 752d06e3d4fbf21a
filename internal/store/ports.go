package store

import (
	"context"

	"khata/internal/core"
)

// Ports for persistence adapters. Both collections are small enough to be
// read and written whole; stores swap the entire slice on Save.
type (
	LedgerStore interface {
		// LoadEntries returns every entry in insertion order.
		LoadEntries(ctx context.Context) ([]core.Entry, error)
		// SaveEntries replaces the stored collection.
		SaveEntries(ctx context.Context, entries []core.Entry) error
	}

	GoalStore interface {
		// LoadGoals returns every goal in insertion order.
		LoadGoals(ctx context.Context) ([]core.Goal, error)
		// SaveGoals replaces the stored collection.
		SaveGoals(ctx context.Context, goals []core.Goal) error
	}

	// Store combines both collections behind one handle, which is how every
	// backend implements them.
	Store interface {
		LedgerStore
		GoalStore
	}
)
