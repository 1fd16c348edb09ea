package xlcull

import (
	"errors"
	"fmt"
)

// ErrNotLoaded indicates an operation on a workbook that is not open.
var ErrNotLoaded = errors.New("workbook is not currently open")

// ErrColumnNotFound indicates a header name or column letter that does not resolve to a column.
var ErrColumnNotFound = errors.New("column not found")

// ErrInvalidOperator indicates a boolean operator other than AND, OR or XOR.
var ErrInvalidOperator = errors.New("invalid boolean operator")

// ErrDestinationEqualsSource indicates a copy whose destination is the source file itself.
var ErrDestinationEqualsSource = errors.New("destination equals source")

// ErrSheetNotStaged indicates a worksheet lookup for a sheet that was never staged.
var ErrSheetNotStaged = errors.New("worksheet not staged")

// ColumnError reports a column that could not be resolved.
type ColumnError struct {
	Column    string
	HeaderRow int // 0 when the column was given as a letter
}

func (e *ColumnError) Error() string {
	if e.HeaderRow > 0 {
		return fmt.Sprintf("could not find column %q in header row %d", e.Column, e.HeaderRow)
	}
	return fmt.Sprintf("invalid column %q", e.Column)
}

func (e *ColumnError) Unwrap() error {
	return ErrColumnNotFound
}

// OperatorError reports an unsupported boolean operator.
type OperatorError struct {
	Operator string
}

func (e *OperatorError) Error() string {
	return fmt.Sprintf("operator must be one of AND, OR, XOR; got %q", e.Operator)
}

func (e *OperatorError) Unwrap() error {
	return ErrInvalidOperator
}

// PathError reports a copy destination that coincides with its source.
type PathError struct {
	Source      string
	Destination string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("copy destination %q is the source workbook %q", e.Destination, e.Source)
}

func (e *PathError) Unwrap() error {
	return ErrDestinationEqualsSource
}
