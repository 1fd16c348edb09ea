package xlcull

import "fmt"

// CullSpec describes one culling pass over a Grid.
type CullSpec struct {
	HeaderRow  int
	Conditions []Condition
	Operator   BoolOperator
	Protected  RowSet // rows never deleted; must already include the header
}

// CullResult reports what a culling pass did.
type CullResult struct {
	Deleted    []Range // deleted ranges, in pre-deletion row numbers, ascending
	Protected  RowSet  // protected rows remapped to post-deletion indices
	RowsBefore int
	RowsAfter  int
}

// DeletedCount returns the number of rows removed.
func (r CullResult) DeletedCount() int { return countRows(r.Deleted) }

// Cull deletes every row that the combined conditions do not select.
//
// Each condition yields the set of data rows (headerRow+1 through the last
// row) that are protected or whose cell in the condition's column matches.
// The sets are combined with spec.Operator and unioned with the protected
// rows; every other row in [1, last row] is deleted, bottom range first.
//
// Because protected rows are injected into every per-condition set before
// combining, XOR drops a protected row from the combination whenever an
// even number of conditions ran; the final union puts it back.
//
// All columns are resolved and all predicates evaluated before the first
// deletion, so lookup and predicate errors leave the grid untouched.
// A failure while deleting leaves the rows deleted so far; the returned
// result then describes only the ranges already removed.
func Cull(g Grid, spec CullSpec) (CullResult, error) {
	protected := spec.Protected.Clone()
	if len(spec.Conditions) == 0 {
		n, err := g.MaxRow()
		if err != nil {
			return CullResult{}, err
		}
		return CullResult{Protected: protected, RowsBefore: n, RowsAfter: n}, nil
	}
	if !spec.Operator.Valid() {
		return CullResult{}, &OperatorError{Operator: string(spec.Operator)}
	}

	cols := make([]int, len(spec.Conditions))
	for i, cond := range spec.Conditions {
		col, err := FindColumn(g, spec.HeaderRow, cond.Column)
		if err != nil {
			return CullResult{}, err
		}
		cols[i] = col
	}

	maxRow, err := g.MaxRow()
	if err != nil {
		return CullResult{}, err
	}

	keepSets := make([]RowSet, len(spec.Conditions))
	for i, cond := range spec.Conditions {
		keep, err := selectRows(g, cond, cols[i], spec.HeaderRow+1, maxRow, protected)
		if err != nil {
			return CullResult{}, err
		}
		keepSets[i] = keep
	}

	keep, err := Combine(keepSets, spec.Operator)
	if err != nil {
		return CullResult{}, err
	}
	keep = keep.Union(protected)

	toDelete := make(RowSet)
	for r := 1; r <= maxRow; r++ {
		if !keep.Has(r) {
			toDelete[r] = struct{}{}
		}
	}

	ranges := FindRanges(toDelete)
	for i := len(ranges) - 1; i >= 0; i-- {
		if err := g.DeleteRows(ranges[i].First, ranges[i].Len()); err != nil {
			done := ranges[i+1:]
			return CullResult{
				Deleted:    done,
				Protected:  RemapProtected(protected, done),
				RowsBefore: maxRow,
				RowsAfter:  maxRow - countRows(done),
			}, fmt.Errorf("delete rows %s: %w", ranges[i], err)
		}
	}

	return CullResult{
		Deleted:    ranges,
		Protected:  RemapProtected(protected, ranges),
		RowsBefore: maxRow,
		RowsAfter:  maxRow - countRows(ranges),
	}, nil
}

// selectRows returns the rows in [first, last] that are protected or whose
// cell in col satisfies the condition.
func selectRows(g Grid, cond Condition, col, first, last int, protected RowSet) (RowSet, error) {
	keep := make(RowSet)
	for r := first; r <= last; r++ {
		if protected.Has(r) {
			keep[r] = struct{}{}
			continue
		}
		c, err := g.Cell(r, col)
		if err != nil {
			return nil, err
		}
		ok, err := cond.Predicate.Match(c)
		if err != nil {
			return nil, fmt.Errorf("condition on column %q: %w", cond.Column, err)
		}
		if ok {
			keep[r] = struct{}{}
		}
	}
	return keep, nil
}
