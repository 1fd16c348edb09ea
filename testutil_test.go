package xlcull

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// writeRows writes rows into sheet starting at A1. A nil value leaves the cell empty.
func writeRows(t *testing.T, f *excelize.File, sheet string, rows [][]any) {
	t.Helper()
	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, name, v))
		}
	}
}

// newGrid creates an in-memory sheet holding rows and returns a Grid over it.
func newGrid(t *testing.T, rows [][]any) *SheetGrid {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })
	writeRows(t, f, "Sheet1", rows)
	g, err := NewSheetGrid(f, "Sheet1")
	require.NoError(t, err)
	return g
}

// numberedRows builds a header plus n data rows: "Value" holding 1..n and
// "Label" holding "row 2".."row n+1" (the original row number).
func numberedRows(n int) [][]any {
	rows := [][]any{{"Value", "Label"}}
	for i := 1; i <= n; i++ {
		rows = append(rows, []any{i, fmt.Sprintf("row %d", i+1)})
	}
	return rows
}

// purchaseRows is a small expense sheet: two sample rows then purchases
// for teams 7 and 8.
//
//	A: Item  B: Team Code  C: Price Per Item  D: Vendor  E: Quantity  F: Notes  G: Total
var purchaseRows = [][]any{
	{"Item", "Team Code", "Price Per Item", "Vendor", "Quantity", "Notes", "Total"},
	{"SAMPLE pens", 0, 1.5, "Acme", 10, "sample", nil},
	{"SAMPLE desk", 0, 250, "Acme", 1, "sample", nil},
	{"Stapler", 7, 12.5, "Acme", 2, "", nil},
	{"Paper", 7, 4.25, "Acme", 20, "", nil},
	{"Monitor", 8, 199, "Dell", 1, "", nil},
	{"Cable", 8, 9.99, "Dell", 3, "", nil},
	{"Chair", 7, 89, "Ikea", 4, "", nil},
	{"Mouse", 8, 25, "Dell", 2, "", nil},
}

// createPurchaseWorkbook saves a workbook with an "Accounting" sheet of
// purchaseRows and a "Notes" sheet, returning its path.
func createPurchaseWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Accounting"))
	writeRows(t, f, "Accounting", purchaseRows)
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "A1", "Reviewer notes"))

	path := filepath.Join(t.TempDir(), "purchase_data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// columnValues reads column col of every row in g as raw strings.
func columnValues(t *testing.T, g Grid, col int) []string {
	t.Helper()
	n, err := g.MaxRow()
	require.NoError(t, err)
	vals := make([]string, 0, n)
	for r := 1; r <= n; r++ {
		c, err := g.Cell(r, col)
		require.NoError(t, err)
		vals = append(vals, c.Raw)
	}
	return vals
}
