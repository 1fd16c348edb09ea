package xlcull

import (
	"maps"
	"strings"
)

// BoolOperator selects how per-condition row sets are combined.
type BoolOperator string

const (
	And BoolOperator = "AND"
	Or  BoolOperator = "OR"
	Xor BoolOperator = "XOR"
)

// ParseBoolOperator parses "and", "OR", " xor " etc. An empty string defaults to AND.
func ParseBoolOperator(s string) (BoolOperator, error) {
	op := BoolOperator(strings.ToUpper(strings.TrimSpace(s)))
	if op == "" {
		return And, nil
	}
	if !op.Valid() {
		return "", &OperatorError{Operator: s}
	}
	return op, nil
}

// Valid reports whether op is one of And, Or, Xor.
func (op BoolOperator) Valid() bool {
	switch op {
	case And, Or, Xor:
		return true
	}
	return false
}

// Combine folds the sets left to right with op. AND intersects, OR unions,
// XOR takes the symmetric difference of the running result with each next set.
// A single set is returned as a copy and no sets give an empty set.
// The inputs are never modified.
func Combine(sets []RowSet, op BoolOperator) (RowSet, error) {
	if !op.Valid() {
		return nil, &OperatorError{Operator: string(op)}
	}
	if len(sets) == 0 {
		return make(RowSet), nil
	}

	result := sets[0].Clone()
	for _, next := range sets[1:] {
		switch op {
		case And:
			for r := range result {
				if !next.Has(r) {
					delete(result, r)
				}
			}
		case Or:
			maps.Copy(result, next)
		case Xor:
			for r := range next {
				if result.Has(r) {
					delete(result, r)
				} else {
					result[r] = struct{}{}
				}
			}
		}
	}
	return result, nil
}
