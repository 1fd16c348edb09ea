package xlcull

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable plan of what the job file will do:
// the rows it keeps, the formulas it adds and the copy produced per key.
// Nothing is read or written. Useful for checking a job before a run.
func (jf *JobFile) Describe() string {
	var b strings.Builder

	headerRow := jf.HeaderRow
	if headerRow == 0 {
		headerRow = 1
	}
	fmt.Fprintf(&b, "Job: %s!%s (header row %d)\n", jf.SourcePath(), jf.Sheet, headerRow)

	protected := ComputeProtected(headerRow, jf.FirstModifiableRow, NewRowSet(jf.ProtectedRows...))
	fmt.Fprintf(&b, "  Protected rows: %s\n", describeRanges(FindRanges(protected)))

	op, err := ParseBoolOperator(jf.Operator)
	if err != nil {
		op = BoolOperator(jf.Operator)
	}
	if len(jf.Conditions) == 0 {
		b.WriteString("  Keep rows: all\n")
	} else {
		fmt.Fprintf(&b, "  Keep rows where (%s):\n", op)
		for _, c := range jf.Conditions {
			fmt.Fprintf(&b, "    %s: %s\n", c.Column, c.Expr)
		}
	}

	if len(jf.Formulas) > 0 {
		b.WriteString("  Formulas:\n")
		for _, f := range jf.Formulas {
			fmt.Fprintf(&b, "    %s: %s", f.Column, f.Template)
			if f.Format != "" {
				fmt.Fprintf(&b, " [format %s]", f.Format)
			}
			b.WriteByte('\n')
		}
	}

	keys := jf.BatchKeys()
	workers := max(jf.Workers, 1)
	fmt.Fprintf(&b, "  Copies (%d, %d at a time):\n", len(keys), workers)
	for _, key := range keys {
		sheet := jf.Sheet
		if rename := formatKey(jf.Rename, key); rename != "" {
			sheet = rename
		}
		if key == nil {
			fmt.Fprintf(&b, "    %s [%s]\n", jf.OutputPath(key), sheet)
			continue
		}
		fmt.Fprintf(&b, "    %v: %s [%s]\n", key, jf.OutputPath(key), sheet)
	}
	return b.String()
}

// describeRanges formats ranges as "1-3, 7".
func describeRanges(ranges []Range) string {
	parts := make([]string, len(ranges))
	for i, r := range ranges {
		parts[i] = r.String()
	}
	return strings.Join(parts, ", ")
}
