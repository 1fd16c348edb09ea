package xlcull

import "fmt"

// Range is an inclusive run of consecutive row indices.
type Range struct {
	First int
	Last  int
}

// Len returns the number of rows covered by the range.
func (r Range) Len() int { return r.Last - r.First + 1 }

// Contains reports whether row falls inside the range.
func (r Range) Contains(row int) bool { return row >= r.First && row <= r.Last }

// String formats the range as "5-9", or "22" for a single row.
func (r Range) String() string {
	if r.First == r.Last {
		return fmt.Sprintf("%d", r.First)
	}
	return fmt.Sprintf("%d-%d", r.First, r.Last)
}

// FindRanges compresses a set of integers into the minimal list of
// ascending, non-adjacent inclusive ranges covering exactly the set.
// For example {1,2,3,5,9,10} → [1-3 5 9-10].
func FindRanges(rows RowSet) []Range {
	sorted := rows.Sorted()
	var starts, ends []int
	for _, n := range sorted {
		if !rows.Has(n - 1) {
			starts = append(starts, n)
		}
		if !rows.Has(n + 1) {
			ends = append(ends, n)
		}
	}
	ranges := make([]Range, len(starts))
	for i := range starts {
		ranges[i] = Range{First: starts[i], Last: ends[i]}
	}
	return ranges
}

// ExpandRanges materializes ranges back into a RowSet.
func ExpandRanges(ranges []Range) RowSet {
	s := make(RowSet)
	for _, r := range ranges {
		for n := r.First; n <= r.Last; n++ {
			s[n] = struct{}{}
		}
	}
	return s
}

// countRows sums the lengths of all ranges.
func countRows(ranges []Range) int {
	n := 0
	for _, r := range ranges {
		n += r.Len()
	}
	return n
}
