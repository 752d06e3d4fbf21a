package http

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"khata/internal/core"
)

func TestAddEntry_Success(t *testing.T) {
	srv := newTestServer(t)

	body := `{"description": "Dukaan ki sale", "amount": 1500, "type": "income"}`
	w := makeRequest(srv, http.MethodPost, "/add-entry/", strings.NewReader(body))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string     `json:"message"`
		Data    core.Entry `json:"data"`
	}
	require.NoError(t, parseJSONResponse(w, &resp))

	assert.Equal(t, "Entry added successfully", resp.Message)
	assert.Equal(t, 1, resp.Data.ID)
	assert.Equal(t, "Dukaan ki sale", resp.Data.Description)
	assert.Equal(t, 1500.0, resp.Data.Amount)
	assert.Equal(t, core.Income, resp.Data.Type)
	assert.Equal(t, "General", resp.Data.Category)
	assert.Equal(t, time.Now().Format(core.DateLayout), resp.Data.Date)
	assert.False(t, resp.Data.Timestamp.IsZero())
}

func TestAddEntry_SequentialIDs(t *testing.T) {
	srv := newTestServer(t)

	first := makeRequest(srv, http.MethodPost, "/add-entry/",
		strings.NewReader(`{"description": "Sale", "amount": 100, "type": "income"}`))
	second := makeRequest(srv, http.MethodPost, "/add-entry/",
		strings.NewReader(`{"description": "Chai", "amount": 40, "type": "expense"}`))

	var resp struct {
		Data core.Entry `json:"data"`
	}
	require.NoError(t, parseJSONResponse(first, &resp))
	assert.Equal(t, 1, resp.Data.ID)
	require.NoError(t, parseJSONResponse(second, &resp))
	assert.Equal(t, 2, resp.Data.ID)
}

func TestAddEntry_StringAmount(t *testing.T) {
	srv := newTestServer(t)

	body := `{"description": "Udhaar wapis", "amount": "750.50", "type": "income"}`
	w := makeRequest(srv, http.MethodPost, "/add-entry/", strings.NewReader(body))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data core.Entry `json:"data"`
	}
	require.NoError(t, parseJSONResponse(w, &resp))
	assert.Equal(t, 750.5, resp.Data.Amount)
}

func TestAddEntry_ExplicitCategoryAndEmptyCategory(t *testing.T) {
	srv := newTestServer(t)

	w := makeRequest(srv, http.MethodPost, "/add-entry/",
		strings.NewReader(`{"description": "Bijli ka bill", "amount": 3200, "type": "expense", "category": "Utilities"}`))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data core.Entry `json:"data"`
	}
	require.NoError(t, parseJSONResponse(w, &resp))
	assert.Equal(t, "Utilities", resp.Data.Category)

	// A present but empty category is preserved; only absence defaults.
	w = makeRequest(srv, http.MethodPost, "/add-entry/",
		strings.NewReader(`{"description": "Kuch aur", "amount": 10, "type": "expense", "category": ""}`))
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, parseJSONResponse(w, &resp))
	assert.Equal(t, "", resp.Data.Category)
}

func TestAddEntry_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty object", `{}`, "No data provided"},
		{"null body", `null`, "No data provided"},
		{"malformed json", `{not json`, "No data provided"},
		{"missing description", `{"amount": 100, "type": "income"}`, "Missing required field: description"},
		{"empty description", `{"description": "", "amount": 100, "type": "income"}`, "Missing required field: description"},
		{"missing amount", `{"description": "x", "type": "income"}`, "Missing required field: amount"},
		{"zero amount is falsy", `{"description": "x", "amount": 0, "type": "income"}`, "Missing required field: amount"},
		{"missing type", `{"description": "x", "amount": 100}`, "Missing required field: type"},
		{"unparseable amount", `{"description": "x", "amount": "abc", "type": "income"}`, "Invalid amount format"},
		{"negative amount", `{"description": "x", "amount": -50, "type": "income"}`, "Amount must be positive"},
		{"string zero amount", `{"description": "x", "amount": "0", "type": "income"}`, "Amount must be positive"},
		{"bad type word", `{"description": "x", "amount": 100, "type": "transfer"}`, "Type must be 'income' or 'expense'"},
		{"numeric type", `{"description": "x", "amount": 100, "type": 7}`, "Type must be 'income' or 'expense'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			w := makeRequest(srv, http.MethodPost, "/add-entry/", strings.NewReader(tt.body))

			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Error string `json:"error"`
			}
			require.NoError(t, parseJSONResponse(w, &resp))
			assert.Equal(t, tt.wantErr, resp.Error)
		})
	}
}

func TestAddGoal_Success(t *testing.T) {
	srv := newTestServer(t)

	body := `{"name": "Nayi bike", "target_amount": 150000, "target_date": "2026-12-31"}`
	w := makeRequest(srv, http.MethodPost, "/add-goal/", strings.NewReader(body))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string    `json:"message"`
		Data    core.Goal `json:"data"`
	}
	require.NoError(t, parseJSONResponse(w, &resp))

	assert.Equal(t, "Goal added successfully", resp.Message)
	assert.Equal(t, 1, resp.Data.ID)
	assert.Equal(t, "Nayi bike", resp.Data.Name)
	assert.Equal(t, 150000.0, resp.Data.TargetAmount)
	assert.Equal(t, "2026-12-31", resp.Data.TargetDate)
	assert.Equal(t, core.GoalStatusActive, resp.Data.Status)
	assert.False(t, resp.Data.CreatedAt.IsZero())
}

func TestAddGoal_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty object", `{}`, "No data provided"},
		{"missing name", `{"target_amount": 5000, "target_date": "2026-12-31"}`, "Missing required field: name"},
		{"missing target amount", `{"name": "Bachat", "target_date": "2026-12-31"}`, "Missing required field: target_amount"},
		{"missing target date", `{"name": "Bachat", "target_amount": 5000}`, "Missing required field: target_date"},
		{"unparseable target amount", `{"name": "Bachat", "target_amount": "soch raha hoon", "target_date": "2026-12-31"}`, "Invalid target amount format"},
		{"negative target amount", `{"name": "Bachat", "target_amount": -5, "target_date": "2026-12-31"}`, "Target amount must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)

			w := makeRequest(srv, http.MethodPost, "/add-goal/", strings.NewReader(tt.body))

			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Error string `json:"error"`
			}
			require.NoError(t, parseJSONResponse(w, &resp))
			assert.Equal(t, tt.wantErr, resp.Error)
		})
	}
}

func TestSummary(t *testing.T) {
	entries := []core.Entry{
		{ID: 1, Description: "Sale", Amount: 1000, Type: core.Income, Category: "Sales", Date: "2026-08-20"},
		{ID: 2, Description: "Groceries", Amount: 400, Type: core.Expense, Category: "Food", Date: "2026-08-21"},
	}
	goals := []core.Goal{
		{ID: 1, Name: "Emergency fund", TargetAmount: 5000, TargetDate: "2026-12-31", Status: core.GoalStatusActive},
	}
	srv := seededTestServer(t, entries, goals)

	w := makeRequest(srv, http.MethodGet, "/summary/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, parseJSONResponse(w, &resp))

	assert.Equal(t, 1000.0, resp["income"])
	assert.Equal(t, 400.0, resp["expense"])
	assert.Equal(t, 600.0, resp["balance"])
	assert.Equal(t, 12.0, resp["goal_progress"])
	assert.Equal(t, 2.0, resp["total_entries"])
	assert.Equal(t, "", resp["debt_advice"])

	categories, ok := resp["categories"].(map[string]any)
	require.True(t, ok)
	sales := categories["Sales"].(map[string]any)
	assert.Equal(t, 1000.0, sales["income"])
	assert.Equal(t, 0.0, sales["expense"])
	food := categories["Food"].(map[string]any)
	assert.Equal(t, 400.0, food["expense"])

	// Categories serialize in first-seen order, not alphabetical.
	bodyStr := w.Body.String()
	assert.Less(t, strings.Index(bodyStr, `"Sales"`), strings.Index(bodyStr, `"Food"`))

	inflation := resp["inflation_impact"].(map[string]any)
	assert.Equal(t, 600.0, inflation["current_balance"])
	assert.Equal(t, 542.45, inflation["future_balance"])
	assert.Equal(t, 57.55, inflation["inflation_loss"])
	assert.Equal(t, 6.0, inflation["months"])

	adviceText, _ := resp["advice"].(string)
	assert.Contains(t, adviceText, "✅ Aapka balance positive hai!")

	respGoals := resp["goals"].([]any)
	require.Len(t, respGoals, 1)
}

func TestSummary_Debt(t *testing.T) {
	entries := []core.Entry{
		{ID: 1, Description: "Udhaar", Amount: 150, Type: core.Expense, Category: "General", Date: "2026-08-20"},
	}
	srv := seededTestServer(t, entries, nil)

	w := makeRequest(srv, http.MethodGet, "/summary/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, parseJSONResponse(w, &resp))

	assert.Equal(t, -150.0, resp["balance"])
	assert.Equal(t, 0.0, resp["goal_progress"])
	assert.Equal(t,
		"⚠️ Aapka debt hai 150 PKR. Roz ka 5 PKR save karein to 1 month mein clear ho jayega.",
		resp["debt_advice"])

	adviceText, _ := resp["advice"].(string)
	assert.Contains(t, adviceText, "⚠️ Expenses zyada hain. Roz ka budget banayein.")
}

func TestSummary_EmptyLedger(t *testing.T) {
	srv := newTestServer(t)

	w := makeRequest(srv, http.MethodGet, "/summary/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, parseJSONResponse(w, &resp))

	assert.Equal(t, 0.0, resp["income"])
	assert.Equal(t, 0.0, resp["balance"])
	assert.Equal(t, 0.0, resp["total_entries"])

	categories := resp["categories"].(map[string]any)
	assert.Empty(t, categories)

	goals := resp["goals"].([]any)
	assert.Empty(t, goals)
}

func TestNotify_WithTodayEntries(t *testing.T) {
	today := time.Now().Format(core.DateLayout)
	entries := []core.Entry{
		{ID: 1, Description: "Sale", Amount: 2000, Type: core.Income, Category: "Sales", Date: today},
		{ID: 2, Description: "Chai", Amount: 500, Type: core.Expense, Category: "Food", Date: today},
		{ID: 3, Description: "Purani sale", Amount: 1000, Type: core.Income, Category: "Sales", Date: "2020-01-01"},
	}
	goals := []core.Goal{
		{ID: 1, Name: "Bachat", TargetAmount: 10000, TargetDate: "2026-12-31", Status: core.GoalStatusActive},
	}
	srv := seededTestServer(t, entries, goals)

	w := makeRequest(srv, http.MethodGet, "/notify/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Notification string `json:"notification"`
		TodayEntries int    `json:"today_entries"`
	}
	require.NoError(t, parseJSONResponse(w, &resp))

	assert.Equal(t, 2, resp.TodayEntries)
	assert.Equal(t, "📊 Aaj: +2000 PKR income, -500 PKR expense. Total balance: 2500 PKR | 🎯 1 active goals", resp.Notification)
}

func TestNotify_NoEntriesToday(t *testing.T) {
	entries := []core.Entry{
		{ID: 1, Description: "Purani sale", Amount: 800, Type: core.Income, Category: "Sales", Date: "2020-01-01"},
	}
	srv := seededTestServer(t, entries, nil)

	w := makeRequest(srv, http.MethodGet, "/notify/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Notification string `json:"notification"`
		TodayEntries int    `json:"today_entries"`
	}
	require.NoError(t, parseJSONResponse(w, &resp))

	assert.Equal(t, 0, resp.TodayEntries)
	assert.Equal(t, "📊 Aaj koi entry nahi. Total balance: 800 PKR", resp.Notification)
}

func TestEntries_EmptyLedger(t *testing.T) {
	srv := newTestServer(t)

	w := makeRequest(srv, http.MethodGet, "/entries/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The empty list must serialize as [], not null.
	assert.Contains(t, w.Body.String(), `"entries":[]`)
}

func TestEntries_CapsAtFifty(t *testing.T) {
	entries := make([]core.Entry, 0, 60)
	for i := 1; i <= 60; i++ {
		entries = append(entries, core.Entry{
			ID: i, Description: "Entry", Amount: float64(i), Type: core.Income, Category: "General", Date: "2026-08-01",
		})
	}
	srv := seededTestServer(t, entries, nil)

	w := makeRequest(srv, http.MethodGet, "/entries/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Entries []core.Entry `json:"entries"`
	}
	require.NoError(t, parseJSONResponse(w, &resp))

	require.Len(t, resp.Entries, 50)
	assert.Equal(t, 11, resp.Entries[0].ID)
	assert.Equal(t, 60, resp.Entries[49].ID)
}
