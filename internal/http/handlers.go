package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"khata/internal/advice"
	"khata/internal/core"
	"khata/internal/log"
)

// handleAddEntry records an income or expense line.
//
// The body is read as a loose JSON object rather than bound to a struct so
// that the response can name the first problem precisely: which required
// field is missing, whether the amount failed to parse or merely failed to
// be positive, and whether the type is one of the two accepted words.
func (s *Server) handleAddEntry(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil || len(data) == 0 {
		badRequest(c, "No data provided")
		return
	}

	for _, field := range []string{"description", "amount", "type"} {
		if missing(data, field) {
			badRequest(c, "Missing required field: "+field)
			return
		}
	}

	amount, err := core.ParseAmount(data["amount"])
	if err != nil {
		badRequest(c, "Invalid amount format")
		return
	}
	if core.ValidateAmount(amount) != nil {
		badRequest(c, "Amount must be positive")
		return
	}

	kind, ok := data["type"].(string)
	if !ok || !core.EntryType(kind).Valid() {
		badRequest(c, "Type must be 'income' or 'expense'")
		return
	}

	category := core.DefaultCategory
	if v, present := data["category"]; present {
		category = stringValue(v)
	}

	entry := core.Entry{
		Description: stringValue(data["description"]),
		Amount:      amount,
		Type:        core.EntryType(kind),
		Category:    category,
	}

	saved, err := s.ledger.AddEntry(c.Request.Context(), entry)
	if err != nil {
		serverError(c, err)
		return
	}

	sl := log.NewStructuredLogger(log.FromContext(c.Request.Context()))
	sl.LogEntryCreated(c.Request.Context(), saved.ID, saved.Description, saved.Amount, string(saved.Type), saved.Category)

	c.JSON(http.StatusCreated, gin.H{"message": "Entry added successfully", "data": saved})
}

// handleAddGoal records a savings goal.
func (s *Server) handleAddGoal(c *gin.Context) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil || len(data) == 0 {
		badRequest(c, "No data provided")
		return
	}

	for _, field := range []string{"name", "target_amount", "target_date"} {
		if missing(data, field) {
			badRequest(c, "Missing required field: "+field)
			return
		}
	}

	target, err := core.ParseAmount(data["target_amount"])
	if err != nil {
		badRequest(c, "Invalid target amount format")
		return
	}
	if core.ValidateAmount(target) != nil {
		badRequest(c, "Target amount must be positive")
		return
	}

	goal := core.Goal{
		Name:         stringValue(data["name"]),
		TargetAmount: target,
		TargetDate:   stringValue(data["target_date"]),
	}

	saved, err := s.ledger.AddGoal(c.Request.Context(), goal)
	if err != nil {
		serverError(c, err)
		return
	}

	sl := log.NewStructuredLogger(log.FromContext(c.Request.Context()))
	sl.LogGoalCreated(c.Request.Context(), saved.ID, saved.Name, saved.TargetAmount)

	c.JSON(http.StatusCreated, gin.H{"message": "Goal added successfully", "data": saved})
}

// handleSummary aggregates the whole ledger: totals, category breakdown,
// goal progress, the inflation projection and advice text.
func (s *Server) handleSummary(c *gin.Context) {
	ctx := c.Request.Context()

	entries, goals, err := s.ledger.Snapshot(ctx)
	if err != nil {
		serverError(c, err)
		return
	}

	summary := core.BuildSummary(entries, goals)
	summary.Advice = s.advisor.Advice(ctx, advice.Snapshot{
		Income:  summary.Income,
		Expense: summary.Expense,
		Balance: summary.Balance,
		Goals:   goals,
	})

	c.JSON(http.StatusOK, summary)
}

// handleNotify produces the one-line daily digest.
func (s *Server) handleNotify(c *gin.Context) {
	ctx := c.Request.Context()

	entries, goals, err := s.ledger.Snapshot(ctx)
	if err != nil {
		serverError(c, err)
		return
	}

	today := time.Now().Format(core.DateLayout)
	notification, todayCount := core.Digest(entries, goals, today)

	c.JSON(http.StatusOK, gin.H{
		"notification":  notification,
		"today_entries": todayCount,
	})
}

// handleEntries lists the most recent entries, oldest first.
func (s *Server) handleEntries(c *gin.Context) {
	entries, err := s.ledger.RecentEntries(c.Request.Context(), recentEntryLimit)
	if err != nil {
		serverError(c, err)
		return
	}
	if entries == nil {
		entries = []core.Entry{}
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
