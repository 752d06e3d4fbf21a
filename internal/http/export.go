package http

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"khata/internal/core"
	"khata/internal/log"
)

const (
	entriesSheetName = "Entries"
	goalsSheetName   = "Goals"
)

var (
	entriesHeader = []string{"ID", "Date", "Type", "Category", "Description", "Amount (PKR)"}
	goalsHeader   = []string{"ID", "Name", "Target Amount (PKR)", "Target Date", "Status"}
)

// handleExport downloads the ledger, picked by the format query parameter.
// The default XLSX workbook carries entries and goals on separate sheets;
// format=csv yields a CSV of the entries only.
func (s *Server) handleExport(c *gin.Context) {
	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		entries, err := s.ledger.Entries(c.Request.Context())
		if err != nil {
			serverError(c, err)
			return
		}
		s.exportCSV(c, entries)
	case "xlsx":
		entries, goals, err := s.ledger.Snapshot(c.Request.Context())
		if err != nil {
			serverError(c, err)
			return
		}
		s.exportXLSX(c, entries, goals)
	default:
		badRequest(c, "Format must be 'csv' or 'xlsx'")
	}
}

func (s *Server) exportCSV(c *gin.Context, entries []core.Entry) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"khata_entries_%s.csv\"",
		time.Now().Format("20060102")))

	// UTF-8 BOM so spreadsheet apps detect the encoding
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(entriesHeader)
	for _, e := range entries {
		writer.Write([]string{
			strconv.Itoa(e.ID),
			e.Date,
			string(e.Type),
			e.Category,
			e.Description,
			core.FormatAmount(e.Amount),
		})
	}
}

func (s *Server) exportXLSX(c *gin.Context, entries []core.Entry, goals []core.Goal) {
	f := excelize.NewFile()
	index, err := f.NewSheet(entriesSheetName)
	if err != nil {
		serverError(c, err)
		return
	}
	if _, err := f.NewSheet(goalsSheetName); err != nil {
		serverError(c, err)
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, h := range entriesHeader {
		f.SetCellValue(entriesSheetName, fmt.Sprintf("%c1", 'A'+i), h)
	}
	for idx, e := range entries {
		row := idx + 2
		f.SetCellValue(entriesSheetName, fmt.Sprintf("A%d", row), e.ID)
		f.SetCellValue(entriesSheetName, fmt.Sprintf("B%d", row), e.Date)
		f.SetCellValue(entriesSheetName, fmt.Sprintf("C%d", row), string(e.Type))
		f.SetCellValue(entriesSheetName, fmt.Sprintf("D%d", row), e.Category)
		f.SetCellValue(entriesSheetName, fmt.Sprintf("E%d", row), e.Description)
		f.SetCellValue(entriesSheetName, fmt.Sprintf("F%d", row), e.Amount)
	}

	f.SetColWidth(entriesSheetName, "A", "A", 6)
	f.SetColWidth(entriesSheetName, "B", "B", 12)
	f.SetColWidth(entriesSheetName, "C", "C", 10)
	f.SetColWidth(entriesSheetName, "D", "D", 15)
	f.SetColWidth(entriesSheetName, "E", "E", 30)
	f.SetColWidth(entriesSheetName, "F", "F", 14)

	for i, h := range goalsHeader {
		f.SetCellValue(goalsSheetName, fmt.Sprintf("%c1", 'A'+i), h)
	}
	for idx, g := range goals {
		row := idx + 2
		f.SetCellValue(goalsSheetName, fmt.Sprintf("A%d", row), g.ID)
		f.SetCellValue(goalsSheetName, fmt.Sprintf("B%d", row), g.Name)
		f.SetCellValue(goalsSheetName, fmt.Sprintf("C%d", row), g.TargetAmount)
		f.SetCellValue(goalsSheetName, fmt.Sprintf("D%d", row), g.TargetDate)
		f.SetCellValue(goalsSheetName, fmt.Sprintf("E%d", row), g.Status)
	}

	f.SetColWidth(goalsSheetName, "A", "A", 6)
	f.SetColWidth(goalsSheetName, "B", "B", 25)
	f.SetColWidth(goalsSheetName, "C", "C", 18)
	f.SetColWidth(goalsSheetName, "D", "D", 12)
	f.SetColWidth(goalsSheetName, "E", "E", 10)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"khata_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		log.FromContext(c.Request.Context()).ErrorContext(c.Request.Context(), "Failed writing XLSX export", "error", err)
	}
}
