package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"khata/internal/core"
)

func TestNewCreatesEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, name := range []string{"ledger.json", "goals.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if strings.TrimSpace(string(data)) != "[]" {
			t.Fatalf("%s = %q, want []", name, data)
		}
	}

	entries, err := s.LoadEntries(context.Background())
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(entries))
	}
}

func TestNewKeepsExistingData(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	entries := []core.Entry{{
		ID:          1,
		Description: "Milk sale",
		Amount:      500,
		Type:        core.Income,
		Category:    "Dairy",
		Date:        "2025-01-15",
		Timestamp:   time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
	}}
	if err := s.SaveEntries(ctx, entries); err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}

	// Reopening must not truncate populated files.
	s2, err := New(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := s2.LoadEntries(ctx)
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if len(got) != 1 || got[0] != entries[0] {
		t.Fatalf("entries = %+v, want %+v", got, entries)
	}
}

func TestGoalsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	goals := []core.Goal{{
		ID:           1,
		Name:         "New fridge",
		TargetAmount: 80000,
		TargetDate:   "2025-12-31",
		CreatedAt:    time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		Status:       core.GoalStatusActive,
	}}
	if err := s.SaveGoals(ctx, goals); err != nil {
		t.Fatalf("SaveGoals: %v", err)
	}
	got, err := s.LoadGoals(ctx)
	if err != nil {
		t.Fatalf("LoadGoals: %v", err)
	}
	if len(got) != 1 || got[0] != goals[0] {
		t.Fatalf("goals = %+v, want %+v", got, goals)
	}
}

func TestFilesUseSnakeCaseAndIndent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.SaveGoals(ctx, []core.Goal{{ID: 1, Name: "Fan", TargetAmount: 3000, TargetDate: "2025-12-31", Status: "active"}}); err != nil {
		t.Fatalf("SaveGoals: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "goals.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	js := string(data)
	if !strings.Contains(js, `"target_amount"`) || !strings.Contains(js, `"created_at"`) {
		t.Fatalf("missing snake_case keys in %s", js)
	}
	if !strings.Contains(js, "\n  {") {
		t.Fatalf("expected two-space indentation in %s", js)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ledger.json"), []byte("{not json"), 0644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	if _, err := s.LoadEntries(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSaveNilWritesEmptyList(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.SaveEntries(ctx, nil); err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, "ledger.json"))
	if strings.TrimSpace(string(data)) != "[]" {
		t.Fatalf("ledger = %q, want []", data)
	}
}
