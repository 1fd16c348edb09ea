package xlcull

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teamConditions(t *testing.T, team int) []Condition {
	t.Helper()
	price, err := WhereExpr("Price Per Item", "v >= 10", nil)
	require.NoError(t, err)
	code, err := WhereExpr("Team Code", "v == key", map[string]any{"key": team})
	require.NoError(t, err)
	return []Condition{price, code}
}

func stagePurchases(t *testing.T, opts ...StageOption) (*Workbook, *Worksheet) {
	t.Helper()
	w, err := Open(createPurchaseWorkbook(t), WithCopyDir(t.TempDir()))
	require.NoError(t, err)
	t.Cleanup(func() { w.Close(false) })
	ws, err := w.Stage("Accounting", opts...)
	require.NoError(t, err)
	return w, ws
}

func TestWorksheet_CullTracksProtectedRows(t *testing.T) {
	_, ws := stagePurchases(t, WithProtectedRows(2, 3))

	res, err := ws.Cull(teamConditions(t, 8), And)
	require.NoError(t, err)
	assert.Equal(t, []Range{{4, 5}, {7, 8}}, res.Deleted)
	assert.Equal(t, []int{1, 2, 3}, res.Protected.Sorted())
	assert.Equal(t, []int{1, 2, 3}, ws.ProtectedRows().Sorted())

	rows, err := ws.ModifiableRows(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, rows)

	g, err := ws.Grid()
	require.NoError(t, err)
	assert.Equal(t, []string{"Item", "SAMPLE pens", "SAMPLE desk", "Monitor", "Mouse"}, columnValues(t, g, 1))
}

func TestWorksheet_CullWithExplicitProtection(t *testing.T) {
	_, ws := stagePurchases(t, WithProtectedRows(2, 3))

	res, err := ws.Cull(teamConditions(t, 7), And, WithProtected(4))
	require.NoError(t, err)

	// samples are no longer protected for this call, Stapler (row 4) is
	assert.Equal(t, []Range{{2, 3}, {5, 7}, {9, 9}}, res.Deleted)
	assert.Equal(t, []int{1, 2}, res.Protected.Sorted())

	// the tracked rows 2 and 3 were deleted; only the header remains
	assert.Equal(t, []int{1}, ws.ProtectedRows().Sorted())
}

func TestWorksheet_ProtectedRowsCopy(t *testing.T) {
	_, ws := stagePurchases(t)
	rows := ws.ProtectedRows()
	rows.Add(9)
	assert.Equal(t, []int{1}, ws.ProtectedRows().Sorted())

	ws.SetProtectedRows(NewRowSet(4))
	assert.Equal(t, []int{1, 4}, ws.ProtectedRows().Sorted())
}

func TestWorksheet_CullMissingColumn(t *testing.T) {
	_, ws := stagePurchases(t, WithProtectedRows(2))

	_, err := ws.Cull([]Condition{Where("Team", func(Cell) bool { return true })}, And)
	assert.ErrorIs(t, err, ErrColumnNotFound)
	assert.Equal(t, []int{1, 2}, ws.ProtectedRows().Sorted(), "tracked rows unchanged on error")
}

func TestWorksheet_AddFormulas(t *testing.T) {
	w, ws := stagePurchases(t, WithProtectedRows(2, 3))

	_, err := ws.Cull(teamConditions(t, 7), And)
	require.NoError(t, err)

	res, err := ws.AddFormulas([]FormulaSpec{
		{Column: "G", Generate: FormulaTemplate("=C{row}*E{row}")},
	})
	require.NoError(t, err)
	assert.Equal(t, ModifiedCells{"G": {"G4", "G5"}}, res.Cells)
	assert.Equal(t, []int{1, 2, 3}, res.Protected.Sorted())

	formula, err := w.File().GetCellFormula("Accounting", "G5")
	require.NoError(t, err)
	assert.Equal(t, "C5*E5", formula)
}

func TestWorksheet_AddFormulasOptions(t *testing.T) {
	w, ws := stagePurchases(t, WithProtectedRows(2, 3))

	res, err := ws.AddFormulas([]FormulaSpec{
		{Column: "G", Generate: FormulaTemplate("=C{row}*E{row}")},
	}, WithRows(2, 9), WithNumberFormats(map[string]string{"G": "id:44"}))
	require.NoError(t, err)
	assert.Equal(t, ModifiedCells{"G": {"G2", "G9"}}, res.Cells)
	assert.Nil(t, res.Protected)

	id, err := w.File().GetCellStyle("Accounting", "G9")
	require.NoError(t, err)
	style, err := w.File().GetStyle(id)
	require.NoError(t, err)
	assert.Equal(t, 44, style.NumFmt)

	res, err = ws.AddFormulas([]FormulaSpec{
		{Column: "F", Generate: FormulaTemplate("ok")},
	}, WithProtected(2, 3, 4, 5, 6, 7, 8))
	require.NoError(t, err)
	assert.Equal(t, ModifiedCells{"F": {"F9"}}, res.Cells)

	res, err = ws.AddFormulas(nil)
	require.NoError(t, err)
	assert.Empty(t, res.Cells)
}
