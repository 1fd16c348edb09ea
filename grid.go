package xlcull

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Grid abstracts the open, mutable 2D sheet that culling and formula
// injection operate on. Rows and columns are 1-based. Deleting rows shifts
// every later row up.
type Grid interface {
	// Cell access
	Cell(row, col int) (Cell, error)
	HeaderCells(row int) ([]Cell, error)
	MaxRow() (int, error)

	// Cell mutation
	SetCellValue(row, col int, value any) error
	SetFormula(row, col int, formula string) error
	SetNumberFormat(row, col int, format string) error

	// Row mutation
	DeleteRows(start, count int) error
}

// SheetGrid implements Grid over one sheet of an excelize file.
type SheetGrid struct {
	file  *excelize.File
	sheet string

	// styleCache maps "styleID|format" to the derived style ID so that
	// repeated formatting of a column reuses one style.
	styleCache map[string]int
}

// NewSheetGrid creates a Grid over sheet in f.
func NewSheetGrid(f *excelize.File, sheet string) (*SheetGrid, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if idx < 0 {
		return nil, fmt.Errorf("sheet %q does not exist", sheet)
	}
	return &SheetGrid{
		file:       f,
		sheet:      sheet,
		styleCache: make(map[string]int),
	}, nil
}

// Sheet returns the sheet name the grid operates on.
func (g *SheetGrid) Sheet() string { return g.sheet }

// File returns the underlying excelize file for advanced operations.
func (g *SheetGrid) File() *excelize.File { return g.file }

// Cell reads the unformatted value of a cell.
func (g *SheetGrid) Cell(row, col int) (Cell, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Cell{}, err
	}
	raw, err := g.file.GetCellValue(g.sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Cell{}, fmt.Errorf("read cell %s!%s: %w", g.sheet, name, err)
	}
	cellType, err := g.file.GetCellType(g.sheet, name)
	if err != nil {
		return Cell{}, fmt.Errorf("read cell type %s!%s: %w", g.sheet, name, err)
	}
	return newCell(name, row, col, raw, cellType), nil
}

// HeaderCells returns every cell of a row, up to its last non-empty cell.
func (g *SheetGrid) HeaderCells(row int) ([]Cell, error) {
	rows, err := g.file.GetRows(g.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %q: %w", g.sheet, err)
	}
	if row < 1 || row > len(rows) {
		return nil, nil
	}
	cells := make([]Cell, 0, len(rows[row-1]))
	for i := range rows[row-1] {
		c, err := g.Cell(row, i+1)
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
	}
	return cells, nil
}

// MaxRow returns the index of the last row holding a value.
func (g *SheetGrid) MaxRow() (int, error) {
	rows, err := g.file.GetRows(g.sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, fmt.Errorf("read rows from sheet %q: %w", g.sheet, err)
	}
	return len(rows), nil
}

// SetCellValue writes a plain value, keeping the cell's style.
func (g *SheetGrid) SetCellValue(row, col int, value any) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return g.file.SetCellValue(g.sheet, name, value)
}

// SetFormula writes a formula. A leading "=" is accepted and stripped, and
// any cached value is cleared so the cell is recalculated.
func (g *SheetGrid) SetFormula(row, col int, formula string) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := g.file.SetCellValue(g.sheet, name, nil); err != nil {
		return err
	}
	return g.file.SetCellFormula(g.sheet, name, strings.TrimPrefix(formula, "="))
}

// SetNumberFormat changes only the number format of a cell's style.
// format is "General", "id:N" for builtin format N (e.g. "id:44"), or any
// other string as a format code such as "0" or "#,##0.00".
func (g *SheetGrid) SetNumberFormat(row, col int, format string) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	current, err := g.file.GetCellStyle(g.sheet, name)
	if err != nil {
		return fmt.Errorf("read style %s!%s: %w", g.sheet, name, err)
	}

	key := strconv.Itoa(current) + "|" + format
	styleID, ok := g.styleCache[key]
	if !ok {
		style, err := g.file.GetStyle(current)
		if err != nil {
			return fmt.Errorf("read style %d: %w", current, err)
		}
		if err := applyNumberFormat(style, format); err != nil {
			return err
		}
		styleID, err = g.file.NewStyle(style)
		if err != nil {
			return fmt.Errorf("create style for format %q: %w", format, err)
		}
		g.styleCache[key] = styleID
	}
	return g.file.SetCellStyle(g.sheet, name, name, styleID)
}

// builtinFormatPrefix marks a builtin number format id, as in "id:44".
const builtinFormatPrefix = "id:"

// applyNumberFormat sets a builtin or custom number format on style.
func applyNumberFormat(style *excelize.Style, format string) error {
	if strings.EqualFold(format, "General") {
		style.NumFmt = 0
		style.CustomNumFmt = nil
		return nil
	}
	if s, ok := strings.CutPrefix(format, builtinFormatPrefix); ok {
		id, err := strconv.Atoi(s)
		if err != nil || id < 0 {
			return fmt.Errorf("invalid builtin number format %q", format)
		}
		style.NumFmt = id
		style.CustomNumFmt = nil
		return nil
	}
	style.NumFmt = 0
	style.CustomNumFmt = &format
	return nil
}

// checkNumberFormat reports whether format is usable by SetNumberFormat.
func checkNumberFormat(format string) error {
	return applyNumberFormat(&excelize.Style{}, format)
}

// DeleteRows removes count rows starting at start.
func (g *SheetGrid) DeleteRows(start, count int) error {
	for i := 0; i < count; i++ {
		if err := g.file.RemoveRow(g.sheet, start); err != nil {
			return fmt.Errorf("remove row %d from sheet %q: %w", start, g.sheet, err)
		}
	}
	return nil
}

// FindColumn returns the 1-based column whose header cell in headerRow is
// exactly name. The first match wins.
func FindColumn(g Grid, headerRow int, name string) (int, error) {
	cells, err := g.HeaderCells(headerRow)
	if err != nil {
		return 0, err
	}
	for _, c := range cells {
		if c.Raw == name {
			return c.Col, nil
		}
	}
	return 0, &ColumnError{Column: name, HeaderRow: headerRow}
}

// columnNumber resolves a column letter such as "G" or "AB".
func columnNumber(letter string) (int, error) {
	col, err := excelize.ColumnNameToNumber(letter)
	if err != nil {
		return 0, &ColumnError{Column: letter}
	}
	return col, nil
}
