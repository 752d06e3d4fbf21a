package http

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"khata/internal/core"
)

func exportFixture() ([]core.Entry, []core.Goal) {
	entries := []core.Entry{
		{ID: 1, Description: "Dukaan ki sale", Amount: 1500, Type: core.Income, Category: "Sales", Date: "2026-08-20"},
		{ID: 2, Description: "Chai, paratha", Amount: 250.75, Type: core.Expense, Category: "Food", Date: "2026-08-21"},
	}
	goals := []core.Goal{
		{ID: 1, Name: "Nayi bike", TargetAmount: 80000, TargetDate: "2027-06-01", Status: core.GoalStatusActive},
	}
	return entries, goals
}

func TestExportCSV(t *testing.T) {
	entries, goals := exportFixture()
	srv := seededTestServer(t, entries, goals)

	w := makeRequest(srv, http.MethodGet, "/export/?format=csv", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "khata_entries_")

	body := w.Body.String()
	require.True(t, strings.HasPrefix(body, "﻿"), "CSV should start with a UTF-8 BOM")

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(body, "﻿")), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Date,Type,Category,Description,Amount (PKR)", strings.TrimSpace(lines[0]))
	assert.Equal(t, "1,2026-08-20,income,Sales,Dukaan ki sale,1500", strings.TrimSpace(lines[1]))
	// The comma in the description forces quoting.
	assert.Equal(t, `2,2026-08-21,expense,Food,"Chai, paratha",250.75`, strings.TrimSpace(lines[2]))
}

func TestExportDefaultsToXLSX(t *testing.T) {
	entries, goals := exportFixture()
	srv := seededTestServer(t, entries, goals)

	w := makeRequest(srv, http.MethodGet, "/export/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
}

func TestExportXLSX(t *testing.T) {
	entries, goals := exportFixture()
	srv := seededTestServer(t, entries, goals)

	w := makeRequest(srv, http.MethodGet, "/export/?format=xlsx", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Entries", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)

	desc, err := f.GetCellValue("Entries", "E2")
	require.NoError(t, err)
	assert.Equal(t, "Dukaan ki sale", desc)

	amount, err := f.GetCellValue("Entries", "F3")
	require.NoError(t, err)
	assert.Equal(t, "250.75", amount)

	goalName, err := f.GetCellValue("Goals", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Nayi bike", goalName)

	goalStatus, err := f.GetCellValue("Goals", "E2")
	require.NoError(t, err)
	assert.Equal(t, "active", goalStatus)
}

func TestExportUnknownFormat(t *testing.T) {
	entries, goals := exportFixture()
	srv := seededTestServer(t, entries, goals)

	w := makeRequest(srv, http.MethodGet, "/export/?format=pdf", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, parseJSONResponse(w, &resp))
	assert.Equal(t, "Format must be 'csv' or 'xlsx'", resp.Error)
}
