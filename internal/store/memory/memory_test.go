package memory

import (
	"context"
	"testing"

	"khata/internal/core"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	entries, err := s.LoadEntries(ctx)
	if err != nil || len(entries) != 0 {
		t.Fatalf("unexpected initial entries: %v err=%v", entries, err)
	}

	want := []core.Entry{
		{ID: 1, Description: "Milk", Amount: 500, Type: core.Income, Category: "Dairy", Date: "2025-01-15"},
	}
	if err := s.SaveEntries(ctx, want); err != nil {
		t.Fatalf("SaveEntries: %v", err)
	}
	got, err := s.LoadEntries(ctx)
	if err != nil || len(got) != 1 || got[0] != want[0] {
		t.Fatalf("unexpected entries: %+v err=%v", got, err)
	}

	goals := []core.Goal{{ID: 1, Name: "Fan", TargetAmount: 3000, TargetDate: "2025-12-31", Status: "active"}}
	if err := s.SaveGoals(ctx, goals); err != nil {
		t.Fatalf("SaveGoals: %v", err)
	}
	gotGoals, err := s.LoadGoals(ctx)
	if err != nil || len(gotGoals) != 1 || gotGoals[0] != goals[0] {
		t.Fatalf("unexpected goals: %+v err=%v", gotGoals, err)
	}
}

func TestLoadReturnsCopy(t *testing.T) {
	s := NewSeeded([]core.Entry{{ID: 1, Description: "a", Amount: 1, Type: core.Income}}, nil)
	ctx := context.Background()

	got, err := s.LoadEntries(ctx)
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	got[0].Description = "mutated"

	again, err := s.LoadEntries(ctx)
	if err != nil {
		t.Fatalf("LoadEntries: %v", err)
	}
	if again[0].Description != "a" {
		t.Fatalf("store leaked internal slice: %+v", again)
	}
}
