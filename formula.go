package xlcull

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// FormulaGenerator produces the content written into a row's cell.
type FormulaGenerator func(row int) string

// FormulaTemplate returns a generator that substitutes the row number for
// every "{row}" in tmpl, e.g. "=C{row}*E{row}" → "=C5*E5" for row 5.
func FormulaTemplate(tmpl string) FormulaGenerator {
	return func(row int) string {
		return strings.ReplaceAll(tmpl, "{row}", strconv.Itoa(row))
	}
}

// FormulaSpec describes the content generated for one column.
type FormulaSpec struct {
	Column       string // column letter, e.g. "G"
	Generate     FormulaGenerator
	NumberFormat string // "General", "id:N" or a format code; empty keeps the cell's format
}

// ModifiedCells maps a column letter to the cells written, in row order.
type ModifiedCells map[string][]string

// AddFormulas writes each spec's generated content into exactly the given
// rows. Content starting with "=" is written as a formula, anything else as
// a plain value. Formula syntax is not checked.
func AddFormulas(g Grid, specs []FormulaSpec, rows []int) (ModifiedCells, error) {
	cols := make([]int, len(specs))
	for i, spec := range specs {
		col, err := columnNumber(spec.Column)
		if err != nil {
			return nil, err
		}
		if spec.Generate == nil {
			return nil, fmt.Errorf("column %q: no formula generator", spec.Column)
		}
		if spec.NumberFormat != "" {
			if err := checkNumberFormat(spec.NumberFormat); err != nil {
				return nil, fmt.Errorf("column %q: %w", spec.Column, err)
			}
		}
		cols[i] = col
	}

	modified := make(ModifiedCells, len(specs))
	for i, spec := range specs {
		cells := make([]string, 0, len(rows))
		for _, row := range rows {
			name, err := excelize.CoordinatesToCellName(cols[i], row)
			if err != nil {
				return modified, err
			}
			content := spec.Generate(row)
			if strings.HasPrefix(content, "=") {
				err = g.SetFormula(row, cols[i], content)
			} else {
				err = g.SetCellValue(row, cols[i], content)
			}
			if err != nil {
				return modified, fmt.Errorf("write %s: %w", name, err)
			}
			if spec.NumberFormat != "" {
				if err := g.SetNumberFormat(row, cols[i], spec.NumberFormat); err != nil {
					return modified, fmt.Errorf("format %s: %w", name, err)
				}
			}
			cells = append(cells, name)
		}
		modified[spec.Column] = append(modified[spec.Column], cells...)
	}
	return modified, nil
}

// TargetRows returns every existing row that is not protected, ascending.
func TargetRows(g Grid, protected RowSet) ([]int, error) {
	maxRow, err := g.MaxRow()
	if err != nil {
		return nil, err
	}
	rows := make([]int, 0, maxRow)
	for r := 1; r <= maxRow; r++ {
		if !protected.Has(r) {
			rows = append(rows, r)
		}
	}
	return rows, nil
}
