package xlcull

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // the job will fail at runtime
	SeverityWarning                 // the job may produce unexpected results
)

// ValidationIssue is a single problem found while checking a job file
// against its source workbook.
type ValidationIssue struct {
	Severity Severity
	Ref      string // "Accounting!B1", "Accounting" or the output path
	Message  string
}

// String formats the issue as "[ERROR] Accounting!B1: message" or "[WARN] ...".
func (v ValidationIssue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	return fmt.Sprintf("[%s] %s: %s", sev, v.Ref, v.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []ValidationIssue) bool {
	for _, v := range issues {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateSource checks a job file against its source workbook without
// copying or writing anything. A non-nil error means the source could not
// be read at all; problems with the job itself are returned as issues.
func ValidateSource(jf *JobFile) ([]ValidationIssue, error) {
	f, err := excelize.OpenFile(jf.SourcePath())
	if err != nil {
		return nil, fmt.Errorf("open source workbook %q: %w", jf.SourcePath(), err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(jf.Sheet); err != nil || idx < 0 {
		return []ValidationIssue{{
			Severity: SeverityError,
			Ref:      jf.Sheet,
			Message:  fmt.Sprintf("sheet does not exist in %q", jf.SourcePath()),
		}}, nil
	}
	g, err := NewSheetGrid(f, jf.Sheet)
	if err != nil {
		return nil, err
	}

	headerRow := jf.HeaderRow
	if headerRow == 0 {
		headerRow = 1
	}
	headers, err := g.HeaderCells(headerRow)
	if err != nil {
		return nil, err
	}

	var issues []ValidationIssue
	issues = append(issues, validateConditionColumns(jf, headers, headerRow)...)
	issues = append(issues, validateFormulaColumns(jf, headers)...)

	maxRow, err := g.MaxRow()
	if err != nil {
		return nil, err
	}
	for _, r := range jf.ProtectedRows {
		if r < 1 || r > maxRow {
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Ref:      jf.Sheet,
				Message:  fmt.Sprintf("protected row %d is outside rows 1-%d", r, maxRow),
			})
		}
	}

	issues = append(issues, validateOutputs(jf, f.GetSheetList())...)
	return issues, nil
}

// validateConditionColumns checks that every condition header exists and is
// unambiguous in the header row.
func validateConditionColumns(jf *JobFile, headers []Cell, headerRow int) []ValidationIssue {
	var issues []ValidationIssue
	for _, c := range jf.Conditions {
		var found []Cell
		for _, h := range headers {
			if h.Raw == c.Column {
				found = append(found, h)
			}
		}
		switch {
		case len(found) == 0:
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Ref:      fmt.Sprintf("%s!%d", jf.Sheet, headerRow),
				Message:  (&ColumnError{Column: c.Column, HeaderRow: headerRow}).Error(),
			})
		case len(found) > 1:
			issues = append(issues, ValidationIssue{
				Severity: SeverityWarning,
				Ref:      jf.Sheet + "!" + found[1].Ref,
				Message:  fmt.Sprintf("header %q also appears in %s; conditions use %s", c.Column, found[0].Ref, found[0].Ref),
			})
		}
	}
	return issues
}

// validateFormulaColumns warns when a formula column is also a condition
// column, since its data would be replaced after culling.
func validateFormulaColumns(jf *JobFile, headers []Cell) []ValidationIssue {
	var issues []ValidationIssue
	for _, fm := range jf.Formulas {
		col, err := columnNumber(fm.Column)
		if err != nil || col > len(headers) {
			continue
		}
		h := headers[col-1]
		for _, c := range jf.Conditions {
			if !h.IsEmpty() && h.Raw == c.Column {
				issues = append(issues, ValidationIssue{
					Severity: SeverityWarning,
					Ref:      jf.Sheet + "!" + h.Ref,
					Message:  fmt.Sprintf("formula column %s overwrites %q, which a condition reads", fm.Column, c.Column),
				})
			}
		}
	}
	return issues
}

// validateOutputs checks that every key gets its own copy, no copy replaces
// the source, and no rename collides with another sheet.
func validateOutputs(jf *JobFile, sheets []string) []ValidationIssue {
	var issues []ValidationIssue
	src := jf.SourcePath()
	seen := make(map[string]any)
	for _, key := range jf.BatchKeys() {
		out := jf.OutputPath(key)
		if prev, dup := seen[out]; dup {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Ref:      out,
				Message:  fmt.Sprintf("keys %v and %v write the same copy", prev, key),
			})
		}
		seen[out] = key

		if same, err := samePath(src, out); err == nil && same {
			issues = append(issues, ValidationIssue{
				Severity: SeverityError,
				Ref:      out,
				Message:  "copy would replace the source workbook",
			})
		}

		if rename := formatKey(jf.Rename, key); rename != "" && rename != jf.Sheet {
			for _, s := range sheets {
				if s == rename {
					issues = append(issues, ValidationIssue{
						Severity: SeverityError,
						Ref:      jf.Sheet,
						Message:  fmt.Sprintf("rename to %q collides with an existing sheet", rename),
					})
				}
			}
		}
	}
	return issues
}
