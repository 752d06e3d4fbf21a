package core

import "fmt"

// Digest builds the one-line daily notification: today's movement against
// the all-time balance, plus an active-goal tail when there is one. The
// second return value is how many entries carry today's date.
func Digest(entries []Entry, goals []Goal, today string) (string, int) {
	var todayIncome, todayExpense float64
	todayCount := 0
	var balance float64
	for _, e := range entries {
		switch e.Type {
		case Income:
			balance += e.Amount
		case Expense:
			balance -= e.Amount
		}
		if e.Date != today {
			continue
		}
		todayCount++
		switch e.Type {
		case Income:
			todayIncome += e.Amount
		case Expense:
			todayExpense += e.Amount
		}
	}

	var msg string
	if todayCount > 0 {
		msg = fmt.Sprintf("📊 Aaj: +%.0f PKR income, -%.0f PKR expense. Total balance: %.0f PKR",
			todayIncome, todayExpense, balance)
	} else {
		msg = fmt.Sprintf("📊 Aaj koi entry nahi. Total balance: %.0f PKR", balance)
	}

	active := 0
	for _, g := range goals {
		if g.Status == GoalStatusActive {
			active++
		}
	}
	if active > 0 {
		msg += fmt.Sprintf(" | 🎯 %d active goals", active)
	}
	return msg, todayCount
}
