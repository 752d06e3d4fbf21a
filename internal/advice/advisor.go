// Package advice produces the narrative guidance text shown with the
// financial summary. The primary path asks an external model; any failure
// degrades to deterministic threshold-based tips.
package advice

import (
	"context"
	"strings"

	"khata/internal/core"
)

// Snapshot is the financial picture an advisor reasons over.
type Snapshot struct {
	Income  float64
	Expense float64
	Balance float64
	Goals   []core.Goal
}

// TextAdvisor generates free-form advice for a snapshot. Implementations may
// hit the network; callers bound them with a timeout and treat every error
// as a fallback trigger.
type TextAdvisor interface {
	Generate(ctx context.Context, snap Snapshot) (string, error)
}

// Prompt renders the fixed instruction sent to the external model.
func Prompt(snap Snapshot) string {
	lines := []string{
		"You are a Pakistani financial advisor for small business owners.",
		"Income: " + core.FormatAmount(snap.Income) + " PKR",
		"Expense: " + core.FormatAmount(snap.Expense) + " PKR",
		"Balance: " + core.FormatAmount(snap.Balance) + " PKR",
		"Goals: " + GoalsText(snap.Goals),
		"Give 3 short, practical tips in Urdu-English mix for Pakistani context.",
		"Focus on: savings, inflation, business growth, zakat if applicable.",
	}
	return strings.Join(lines, "\n")
}

// GoalsText flattens goals into "Name (Amount PKR)" pairs for the prompt.
func GoalsText(goals []core.Goal) string {
	parts := make([]string, 0, len(goals))
	for _, g := range goals {
		parts = append(parts, g.Name+" ("+core.FormatAmount(g.TargetAmount)+" PKR)")
	}
	return strings.Join(parts, ", ")
}

// Fallback returns the deterministic tips. The zakat line states the rule as
// literal text, it does not compute the amount.
func Fallback(snap Snapshot) string {
	var lines []string

	if snap.Balance > 0 {
		lines = append(lines, "✅ Aapka balance positive hai! Bachat karne ka plan banayein.")
		if snap.Balance > 100000 {
			lines = append(lines, "💰 Zakat calculate karein (2.5% of savings above 135,000 PKR)")
		}
	} else {
		lines = append(lines, "⚠️ Expenses zyada hain. Roz ka budget banayein.")
	}

	lines = append(lines,
		"📈 Mahangai 20% hai - prices review karte rahein.",
		"🎯 Financial goals set karein aur progress track karein.")

	return strings.Join(lines, "\n")
}
