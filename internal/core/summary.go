package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

const (
	// InflationAnnualRate is the assumed yearly inflation eroding an idle
	// balance. Divided by 12 for monthly compounding.
	InflationAnnualRate = 0.20
	// InflationHorizonMonths is how far ahead the projection looks.
	InflationHorizonMonths = 6
	// DebtPayoffDays sizes the daily savings target in debt advice.
	DebtPayoffDays = 30
)

// CategoryTotals accumulates income and expense for one category.
type CategoryTotals struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CategoryBreakdown groups entry amounts by category, preserving the order
// in which categories first appear in the ledger. encoding/json sorts map
// keys alphabetically, so serialization goes through a custom marshaler
// that walks the insertion order instead.
type CategoryBreakdown struct {
	names  []string
	totals map[string]*CategoryTotals
}

func NewCategoryBreakdown() *CategoryBreakdown {
	return &CategoryBreakdown{totals: make(map[string]*CategoryTotals)}
}

// Add folds one entry into its category bucket, creating the bucket on
// first sight.
func (b *CategoryBreakdown) Add(e Entry) {
	t, ok := b.totals[e.Category]
	if !ok {
		t = &CategoryTotals{}
		b.totals[e.Category] = t
		b.names = append(b.names, e.Category)
	}
	switch e.Type {
	case Income:
		t.Income += e.Amount
	case Expense:
		t.Expense += e.Amount
	}
}

// Get returns the totals for a category.
func (b *CategoryBreakdown) Get(name string) (CategoryTotals, bool) {
	t, ok := b.totals[name]
	if !ok {
		return CategoryTotals{}, false
	}
	return *t, true
}

// Names returns the category names in first-seen order.
func (b *CategoryBreakdown) Names() []string {
	return append([]string(nil), b.names...)
}

func (b *CategoryBreakdown) Len() int {
	return len(b.names)
}

// MarshalJSON writes the buckets as a JSON object in first-seen order.
// An empty breakdown marshals as {}.
func (b *CategoryBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range b.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(b.totals[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// InflationImpact projects what an idle balance is worth after the horizon.
type InflationImpact struct {
	CurrentBalance float64 `json:"current_balance"`
	FutureBalance  float64 `json:"future_balance"`
	InflationLoss  float64 `json:"inflation_loss"`
	Months         int     `json:"months"`
}

// ProjectInflation compounds the monthly inflation rate over the horizon.
// Future balance and loss are rounded to two decimals; the current balance
// passes through untouched. Negative balances project too, which makes the
// "loss" a gain in nominal terms, matching how the figures read on a debt.
func ProjectInflation(balance float64) InflationImpact {
	monthly := InflationAnnualRate / 12
	future := balance * math.Pow(1-monthly, InflationHorizonMonths)
	return InflationImpact{
		CurrentBalance: balance,
		FutureBalance:  Round2(future),
		InflationLoss:  Round2(balance - future),
		Months:         InflationHorizonMonths,
	}
}

// Summary is the aggregate view over the whole ledger. Field order here is
// the field order on the wire.
type Summary struct {
	Income       float64            `json:"income"`
	Expense      float64            `json:"expense"`
	Balance      float64            `json:"balance"`
	Categories   *CategoryBreakdown `json:"categories"`
	Goals        []Goal             `json:"goals"`
	GoalProgress float64            `json:"goal_progress"`
	Inflation    InflationImpact    `json:"inflation_impact"`
	Advice       string             `json:"advice"`
	DebtAdvice   string             `json:"debt_advice"`
	TotalEntries int                `json:"total_entries"`
}

// BuildSummary derives every numeric field of the summary from a snapshot
// of the two collections. Advice text is attached by the caller because it
// may involve a remote model.
//
// Goal progress is aggregate: balance against the sum of all goal targets,
// as a percentage rounded to two decimals, zero when there are no goals.
// A negative balance yields negative progress on purpose.
func BuildSummary(entries []Entry, goals []Goal) Summary {
	s := Summary{
		Categories:   NewCategoryBreakdown(),
		Goals:        goals,
		TotalEntries: len(entries),
	}
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
	for _, e := range entries {
		switch e.Type {
		case Income:
			s.Income += e.Amount
		case Expense:
			s.Expense += e.Amount
		}
		s.Categories.Add(e)
	}
	s.Balance = s.Income - s.Expense

	var totalTarget float64
	for _, g := range goals {
		totalTarget += g.TargetAmount
	}
	if totalTarget > 0 {
		s.GoalProgress = Round2(s.Balance / totalTarget * 100)
	}

	s.Inflation = ProjectInflation(s.Balance)
	s.DebtAdvice = DebtAdvice(s.Balance)
	return s
}

// DebtAdvice describes an outstanding debt and the daily saving needed to
// clear it within DebtPayoffDays. Empty for non-negative balances.
func DebtAdvice(balance float64) string {
	if balance >= 0 {
		return ""
	}
	debt := -balance
	daily := debt / DebtPayoffDays
	return fmt.Sprintf("⚠️ Aapka debt hai %s PKR. Roz ka %.0f PKR save karein to 1 month mein clear ho jayega.",
		FormatAmount(debt), daily)
}
