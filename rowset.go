package xlcull

import (
	"maps"
	"slices"
)

// RowSet is a set of 1-based row indices.
type RowSet map[int]struct{}

// NewRowSet creates a RowSet holding the given rows.
func NewRowSet(rows ...int) RowSet {
	s := make(RowSet, len(rows))
	for _, r := range rows {
		s[r] = struct{}{}
	}
	return s
}

// RowRange creates a RowSet holding every row in [first, last].
// An empty set is returned when last < first.
func RowRange(first, last int) RowSet {
	s := make(RowSet)
	for r := first; r <= last; r++ {
		s[r] = struct{}{}
	}
	return s
}

// Add inserts rows into the set.
func (s RowSet) Add(rows ...int) {
	for _, r := range rows {
		s[r] = struct{}{}
	}
}

// Has reports whether row is in the set. A nil set contains nothing.
func (s RowSet) Has(row int) bool {
	_, ok := s[row]
	return ok
}

// Len returns the number of rows in the set.
func (s RowSet) Len() int { return len(s) }

// Clone returns an independent copy. Cloning a nil set gives an empty set.
func (s RowSet) Clone() RowSet {
	c := make(RowSet, len(s))
	maps.Copy(c, s)
	return c
}

// Union returns a new set holding the rows of s and other.
func (s RowSet) Union(other RowSet) RowSet {
	u := s.Clone()
	maps.Copy(u, other)
	return u
}

// Sorted returns the rows in ascending order.
func (s RowSet) Sorted() []int {
	return slices.Sorted(maps.Keys(s))
}

// Equal reports whether both sets hold exactly the same rows.
func (s RowSet) Equal(other RowSet) bool {
	if len(s) != len(other) {
		return false
	}
	for r := range s {
		if !other.Has(r) {
			return false
		}
	}
	return true
}
