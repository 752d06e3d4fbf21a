package core

import "testing"

func TestDigestWithTodayEntries(t *testing.T) {
	entries := []Entry{
		{Description: "Old sale", Amount: 2000, Type: Income, Date: "2025-01-10"},
		{Description: "Milk", Amount: 500, Type: Income, Date: "2025-01-15"},
		{Description: "Feed", Amount: 200, Type: Expense, Date: "2025-01-15"},
	}
	goals := []Goal{
		{Name: "Fridge", Status: GoalStatusActive},
		{Name: "Old goal", Status: "done"},
	}
	msg, count := Digest(entries, goals, "2025-01-15")

	want := "📊 Aaj: +500 PKR income, -200 PKR expense. Total balance: 2300 PKR | 🎯 1 active goals"
	if msg != want {
		t.Fatalf("digest = %q, want %q", msg, want)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}

func TestDigestNoTodayEntries(t *testing.T) {
	entries := []Entry{
		{Description: "Old sale", Amount: 800, Type: Income, Date: "2025-01-10"},
	}
	msg, count := Digest(entries, nil, "2025-01-15")

	want := "📊 Aaj koi entry nahi. Total balance: 800 PKR"
	if msg != want {
		t.Fatalf("digest = %q, want %q", msg, want)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestDigestNoActiveGoals(t *testing.T) {
	goals := []Goal{{Name: "Done", Status: "done"}}
	msg, _ := Digest(nil, goals, "2025-01-15")
	if msg != "📊 Aaj koi entry nahi. Total balance: 0 PKR" {
		t.Fatalf("digest = %q", msg)
	}
}
