package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// DateLayout is the wire format for entry dates and goal target dates.
const DateLayout = "2006-01-02"

// DefaultCategory is assigned to entries recorded without a category.
const DefaultCategory = "General"

// GoalStatusActive is the status every new goal starts with. Nothing
// transitions a goal out of it yet; completion tracking happens through
// the aggregate progress figure instead.
const GoalStatusActive = "active"

type (
	EntryType string

	Entry struct {
		ID          int       `json:"id"`
		Description string    `json:"description"`
		Amount      float64   `json:"amount"`
		Type        EntryType `json:"type"`
		Category    string    `json:"category"`
		Date        string    `json:"date"`
		Timestamp   time.Time `json:"timestamp"`
	}

	Goal struct {
		ID           int       `json:"id"`
		Name         string    `json:"name"`
		TargetAmount float64   `json:"target_amount"`
		TargetDate   string    `json:"target_date"`
		CreatedAt    time.Time `json:"created_at"`
		Status       string    `json:"status"`
	}
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidEntryType = errors.New("invalid entry type")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyTargetDate  = errors.New("empty target date")
)

func (t EntryType) Valid() bool {
	return t == Income || t == Expense
}

func (e Entry) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := ValidateAmount(e.Amount); err != nil {
		return err
	}
	if !e.Type.Valid() {
		return ErrInvalidEntryType
	}
	if e.Date != "" {
		if _, err := time.Parse(DateLayout, e.Date); err != nil {
			return errors.New("invalid date: " + err.Error())
		}
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if err := ValidateAmount(g.TargetAmount); err != nil {
		return err
	}
	if strings.TrimSpace(g.TargetDate) == "" {
		return ErrEmptyTargetDate
	}
	return nil
}
