package xlcull

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const teamReportsJob = `
source: purchase_data.xlsx
sheet: Accounting
protected_rows: [2, 3]
rename: "%02v_expense_verif"
conditions:
  - {column: Price Per Item, expr: "v >= 10"}
  - {column: Team Code, expr: "v == key"}
formulas:
  - {column: G, template: "=C{row}*E{row}", format: "id:44"}
output: "Team %02v Expense Verification Report.xlsx"
output_dir: reports
key_range: {from: 7, to: 8}
workers: 2
`

func TestParseJobFile(t *testing.T) {
	jf, err := ParseJobFile([]byte(teamReportsJob))
	require.NoError(t, err)

	assert.Equal(t, "Accounting", jf.Sheet)
	assert.Equal(t, []int{2, 3}, jf.ProtectedRows)
	require.Len(t, jf.Conditions, 2)
	assert.Equal(t, "Team Code", jf.Conditions[1].Column)
	assert.Equal(t, []any{7, 8}, jf.BatchKeys())
	assert.Equal(t, "purchase_data.xlsx", jf.SourcePath())
}

func TestParseJobFile_UnknownField(t *testing.T) {
	_, err := ParseJobFile([]byte("source: a.xlsx\nsheet: S\noutput: o.xlsx\nsheets: [x]\n"))
	require.Error(t, err)
}

func TestJobFile_Validate(t *testing.T) {
	jf := &JobFile{
		Operator:   "NAND",
		Conditions: []ConditionFile{{Column: "A"}, {Expr: "v >="}},
		Formulas:   []FormulaFile{{Column: "1"}},
		Keys:       []any{1},
		KeyRange:   &KeyRange{From: 5, To: 1},
	}
	err := jf.Validate()
	require.Error(t, err)

	msg := err.Error()
	for _, want := range []string{
		"source is required",
		"sheet is required",
		"output is required",
		"NAND",
		"conditions[0]: expr is required",
		"conditions[1]: column is required",
		"conditions[1]: invalid expression",
		"formulas[0]: invalid column",
		"formulas[0]: template is required",
		"must contain a key verb",
		"key_range",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestJobFile_BatchKeys(t *testing.T) {
	jf := &JobFile{Keys: []any{"north", "south"}, KeyRange: &KeyRange{From: 1, To: 2}}
	assert.Equal(t, []any{"north", "south", 1, 2}, jf.BatchKeys())

	assert.Equal(t, []any{nil}, (&JobFile{}).BatchKeys())
}

func TestFormatKey(t *testing.T) {
	assert.Equal(t, "Team 07.xlsx", formatKey("Team %02v.xlsx", 7))
	assert.Equal(t, "report.xlsx", formatKey("report.xlsx", 7))
	assert.Equal(t, "Team %02v.xlsx", formatKey("Team %02v.xlsx", nil))
	assert.Empty(t, formatKey("", 7))
}

func TestJobFile_BuildJob(t *testing.T) {
	jf, err := ParseJobFile([]byte(teamReportsJob))
	require.NoError(t, err)

	batch, err := jf.Batch()
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Workers)

	job, err := batch.Build(7)
	require.NoError(t, err)
	assert.Equal(t, "07_expense_verif", job.Rename)
	assert.Equal(t, And, job.Operator)
	require.Len(t, job.Formulas, 1)
	assert.Equal(t, "=C4*E4", job.Formulas[0].Generate(4))
	assert.Equal(t, "id:44", job.Formulas[0].NumberFormat)

	ok, err := job.Conditions[1].Predicate.Match(Cell{Ref: "B4", Row: 4, Value: 7.0, Raw: "7"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoadJobFile_RunBatch(t *testing.T) {
	src := createPurchaseWorkbook(t)
	dir := filepath.Dir(src)
	path := filepath.Join(dir, "team_reports.yaml")
	require.NoError(t, os.WriteFile(path, []byte(teamReportsJob), 0o644))

	jf, err := LoadJobFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, jf.SourcePath())

	batch, err := jf.Batch()
	require.NoError(t, err)
	results, err := RunBatch(context.Background(), jf.SourcePath(), batch)
	require.NoError(t, err)
	require.Len(t, results, 2)

	want := filepath.Join(dir, "reports", "Team 08 Expense Verification Report.xlsx")
	assert.Equal(t, want, results[1].Path)

	f, err := excelize.OpenFile(want)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"08_expense_verif", "Notes"}, f.GetSheetList())

	formula, err := f.GetCellFormula("08_expense_verif", "G4")
	require.NoError(t, err)
	assert.Equal(t, "C4*E4", formula)
}

func TestLoadJobFile_Missing(t *testing.T) {
	_, err := LoadJobFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestJobFile_BatchRejectsSharedOutputs(t *testing.T) {
	jf, err := ParseJobFile([]byte(`
source: purchase_data.xlsx
sheet: Accounting
output: "team%v.xlsx"
keys: [7, "7"]
`))
	require.NoError(t, err)

	_, err = jf.Batch()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "team7.xlsx")
}
