// Package xlcull copies .xlsx workbooks and culls rows that fail per-column
// conditions, then adds generated formulas to the rows that remain.
package xlcull

import (
	"errors"
	"fmt"
)

// Job describes a complete copy-cull run over one sheet.
type Job struct {
	Sheet              string
	HeaderRow          int // default 1
	FirstModifiableRow int // default HeaderRow+1
	ProtectedRows      []int
	Rename             string
	Conditions         []Condition
	Operator           BoolOperator // default AND
	Formulas           []FormulaSpec
	Options            []Option // destination, logger, ...
}

// Result reports the outcome of a Job.
type Result struct {
	Key     any // batch key, nil for a single job
	Path    string
	Sheet   string // sheet name after any rename
	Cull    CullResult
	Formula FormulaResult
}

// CopyCull copies src, culls the job's sheet down to the selected rows, adds
// the job's formulas to the remaining unprotected rows, then saves and
// closes the copy. The source file is never modified.
func CopyCull(src string, job Job) (res *Result, err error) {
	w, err := Open(src, job.Options...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, w.Close(false))
		}
	}()

	headerRow := job.HeaderRow
	if headerRow == 0 {
		headerRow = 1
	}
	stageOpts := []StageOption{
		WithHeaderRow(headerRow),
		WithFirstModifiableRow(job.FirstModifiableRow),
		WithProtectedRows(job.ProtectedRows...),
	}
	if job.Rename != "" {
		stageOpts = append(stageOpts, WithRename(job.Rename))
	}
	ws, err := w.Stage(job.Sheet, stageOpts...)
	if err != nil {
		return nil, err
	}

	op := job.Operator
	if op == "" {
		op = And
	}
	cull, err := ws.Cull(job.Conditions, op)
	if err != nil {
		return nil, fmt.Errorf("cull sheet %q: %w", job.Sheet, err)
	}
	formula, err := ws.AddFormulas(job.Formulas)
	if err != nil {
		return nil, fmt.Errorf("add formulas to sheet %q: %w", ws.Name(), err)
	}
	if err := w.Close(true); err != nil {
		return nil, err
	}
	return &Result{
		Path:    w.Path(),
		Sheet:   ws.Name(),
		Cull:    cull,
		Formula: formula,
	}, nil
}
