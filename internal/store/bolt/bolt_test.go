package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"khata/internal/core"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "khata.bolt"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestEntriesRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries := []core.Entry{
		{ID: 1, Description: "Milk sale", Amount: 500, Type: core.Income, Category: "Dairy", Date: "2025-01-15", Timestamp: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)},
		{ID: 2, Description: "Feed", Amount: 200, Type: core.Expense, Category: "General", Date: "2025-01-15", Timestamp: time.Date(2025, 1, 15, 11, 0, 0, 0, time.UTC)},
	}
	if err := s.SaveEntries(ctx, entries); err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}

	got, err := s.LoadEntries(ctx)
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("entries = %d, want 2", len(got))
	}
	for i := range entries {
		if got[i] != entries[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], entries[i])
		}
	}
}

func TestSaveReplacesCollection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := []core.Entry{
		{ID: 1, Description: "a", Amount: 1, Type: core.Income, Category: "General", Date: "2025-01-15"},
		{ID: 2, Description: "b", Amount: 2, Type: core.Income, Category: "General", Date: "2025-01-15"},
	}
	if err := s.SaveEntries(ctx, first); err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}
	second := []core.Entry{
		{ID: 1, Description: "only", Amount: 9, Type: core.Expense, Category: "General", Date: "2025-01-16"},
	}
	if err := s.SaveEntries(ctx, second); err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}

	got, err := s.LoadEntries(ctx)
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if len(got) != 1 || got[0].Description != "only" {
		t.Fatalf("entries = %+v, want single replacement", got)
	}
}

func TestGoalsKeyOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Saved out of order; big-endian keys must iterate 1..3.
	goals := []core.Goal{
		{ID: 3, Name: "c", TargetAmount: 3, TargetDate: "2025-12-31", Status: "active"},
		{ID: 1, Name: "a", TargetAmount: 1, TargetDate: "2025-12-31", Status: "active"},
		{ID: 2, Name: "b", TargetAmount: 2, TargetDate: "2025-12-31", Status: "active"},
	}
	if err := s.SaveGoals(ctx, goals); err != nil {
		t.Fatalf("SaveGoals: %v", err)
	}

	got, err := s.LoadGoals(ctx)
	if err != nil {
		t.Fatalf("LoadGoals: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("goals = %d, want 3", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].Name != want {
			t.Fatalf("goals[%d] = %q, want %q", i, got[i].Name, want)
		}
	}
}

func TestEmptyDatabase(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	entries, err := s.LoadEntries(ctx)
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(entries))
	}
	goals, err := s.LoadGoals(ctx)
	if err != nil {
		t.Fatalf("LoadGoals: %v", err)
	}
	if len(goals) != 0 {
		t.Fatalf("goals = %d, want 0", len(goals))
	}
}
