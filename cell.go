package xlcull

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Cell is a single cell value read from a Grid.
type Cell struct {
	Ref   string // "C5"
	Row   int    // 1-based
	Col   int    // 1-based
	Raw   string // unformatted cell text
	Value any    // nil, bool, float64 or string
}

// newCell types the raw cell text: booleans from boolean cells, float64 for
// anything numeric that isn't stored as text, otherwise the string itself.
func newCell(ref string, row, col int, raw string, cellType excelize.CellType) Cell {
	c := Cell{Ref: ref, Row: row, Col: col, Raw: raw}
	if raw == "" {
		return c
	}
	switch cellType {
	case excelize.CellTypeBool:
		c.Value = raw == "1" || strings.EqualFold(raw, "true")
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		c.Value = raw
	default:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			c.Value = f
		} else {
			c.Value = raw
		}
	}
	return c
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool { return c.Value == nil }

// Float returns the value as a float64 when it is numeric.
func (c Cell) Float() (float64, bool) {
	f, ok := c.Value.(float64)
	return f, ok
}

// String returns the raw cell text.
func (c Cell) String() string { return c.Raw }
