package xlcull

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func numberCell(row int, raw string) Cell {
	ref, _ := excelize.CoordinatesToCellName(1, row)
	return newCell(ref, row, 1, raw, excelize.CellTypeUnset)
}

func TestCompilePredicate(t *testing.T) {
	p, err := CompilePredicate("v >= 10", nil)
	require.NoError(t, err)
	assert.Equal(t, "v >= 10", p.String())

	ok, err := p.Match(numberCell(2, "12.5"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Match(numberCell(3, "4.25"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompilePredicate_Errors(t *testing.T) {
	_, err := CompilePredicate("", nil)
	require.Error(t, err)

	_, err = CompilePredicate("v >= (", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v >= (")
}

func TestExprPredicate_Variables(t *testing.T) {
	p, err := CompilePredicate("v == key && row > 2 && ref != 'A9'", map[string]any{"key": 7})
	require.NoError(t, err)

	ok, err := p.Match(numberCell(4, "7"))
	require.NoError(t, err)
	assert.True(t, ok, "float cell value equals int key")

	ok, err = p.Match(numberCell(2, "7"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.Match(numberCell(9, "7"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExprPredicate_VarsAreCopied(t *testing.T) {
	vars := map[string]any{"key": 7}
	p, err := CompilePredicate("v == key", vars)
	require.NoError(t, err)
	vars["key"] = 8

	ok, err := p.Match(numberCell(2, "7"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExprPredicate_RawText(t *testing.T) {
	p, err := CompilePredicate(`raw startsWith "SAMPLE"`, nil)
	require.NoError(t, err)

	c := newCell("A2", 2, 1, "SAMPLE pens", excelize.CellTypeSharedString)
	ok, err := p.Match(c)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExprPredicate_NonBool(t *testing.T) {
	p, err := CompilePredicate("v + 1", nil)
	require.NoError(t, err)

	_, err = p.Match(numberCell(2, "1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected bool")
	assert.Contains(t, err.Error(), "A2")
}

func TestExprPredicate_NilIsFalse(t *testing.T) {
	p, err := CompilePredicate("v", nil)
	require.NoError(t, err)

	ok, err := p.Match(numberCell(2, ""))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWhere(t *testing.T) {
	cond := Where("Value", func(c Cell) bool { return c.Raw == "x" })
	assert.Equal(t, "Value", cond.Column)

	ok, err := cond.Predicate.Match(Cell{Raw: "x"})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWhereExpr(t *testing.T) {
	cond, err := WhereExpr("Price Per Item", "v >= 10", nil)
	require.NoError(t, err)
	assert.Equal(t, "Price Per Item", cond.Column)

	_, err = WhereExpr("Price Per Item", "", nil)
	require.Error(t, err)
}
