package xlcull

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// JobFile is the YAML description of a job or a batch of jobs.
//
//	source: purchase_data.xlsx
//	sheet: Accounting
//	protected_rows: [2, 3]
//	rename: "%02v_expense_verif"
//	conditions:
//	  - {column: Price Per Item, expr: "v >= 10"}
//	  - {column: Team Code, expr: "v == key"}
//	formulas:
//	  - {column: G, template: "=C{row}*E{row}", format: "id:44"}
//	output: "Team %02v Expense Verification Report.xlsx"
//	output_dir: reports
//	key_range: {from: 7, to: 23}
//
// With keys or key_range set, rename and output are fmt patterns formatted
// with the key, and condition expressions see the key as variable key.
type JobFile struct {
	Source             string          `yaml:"source"`
	Sheet              string          `yaml:"sheet"`
	HeaderRow          int             `yaml:"header_row"`
	FirstModifiableRow int             `yaml:"first_modifiable_row"`
	ProtectedRows      []int           `yaml:"protected_rows"`
	Rename             string          `yaml:"rename"`
	Operator           string          `yaml:"operator"`
	Conditions         []ConditionFile `yaml:"conditions"`
	Formulas           []FormulaFile   `yaml:"formulas"`
	Output             string          `yaml:"output"`
	OutputDir          string          `yaml:"output_dir"`
	Keys               []any           `yaml:"keys"`
	KeyRange           *KeyRange       `yaml:"key_range"`
	Workers            int             `yaml:"workers"`
	RecalculateOnOpen  bool            `yaml:"recalculate_on_open"`

	dir string // directory relative paths resolve against
}

// ConditionFile is one condition of a JobFile.
type ConditionFile struct {
	Column string `yaml:"column"`
	Expr   string `yaml:"expr"`
}

// FormulaFile is one formula column of a JobFile.
type FormulaFile struct {
	Column   string `yaml:"column"`
	Template string `yaml:"template"`
	Format   string `yaml:"format"`
}

// KeyRange generates the integer keys From..To inclusive.
type KeyRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

// LoadJobFile reads and validates a job file. Relative source and output
// paths resolve against the file's directory.
func LoadJobFile(path string) (*JobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file %q: %w", path, err)
	}
	jf, err := ParseJobFile(data)
	if err != nil {
		return nil, fmt.Errorf("job file %q: %w", path, err)
	}
	jf.dir = filepath.Dir(path)
	return jf, nil
}

// ParseJobFile decodes and validates YAML job data.
func ParseJobFile(data []byte) (*JobFile, error) {
	var jf JobFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&jf); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	if err := jf.Validate(); err != nil {
		return nil, err
	}
	return &jf, nil
}

// Validate checks required fields, the operator, expression syntax and
// formula column letters.
func (jf *JobFile) Validate() error {
	var errs []error
	if jf.Source == "" {
		errs = append(errs, errors.New("source is required"))
	}
	if jf.Sheet == "" {
		errs = append(errs, errors.New("sheet is required"))
	}
	if jf.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	if jf.HeaderRow < 0 {
		errs = append(errs, fmt.Errorf("header_row must be >= 1, got %d", jf.HeaderRow))
	}
	if _, err := ParseBoolOperator(jf.Operator); err != nil {
		errs = append(errs, err)
	}
	for i, c := range jf.Conditions {
		if c.Column == "" {
			errs = append(errs, fmt.Errorf("conditions[%d]: column is required", i))
		}
		if c.Expr == "" {
			errs = append(errs, fmt.Errorf("conditions[%d]: expr is required", i))
		} else if _, err := compileProgram(c.Expr); err != nil {
			errs = append(errs, fmt.Errorf("conditions[%d]: invalid expression %q: %w", i, c.Expr, err))
		}
	}
	for i, f := range jf.Formulas {
		if _, err := columnNumber(f.Column); err != nil {
			errs = append(errs, fmt.Errorf("formulas[%d]: %w", i, err))
		}
		if f.Template == "" {
			errs = append(errs, fmt.Errorf("formulas[%d]: template is required", i))
		}
		if f.Format != "" {
			if err := checkNumberFormat(f.Format); err != nil {
				errs = append(errs, fmt.Errorf("formulas[%d]: %w", i, err))
			}
		}
	}
	if (len(jf.Keys) > 0 || jf.KeyRange != nil) && !strings.Contains(jf.Output, "%") {
		errs = append(errs, fmt.Errorf("output %q must contain a key verb such as %%v when keys are set", jf.Output))
	}
	if jf.KeyRange != nil && jf.KeyRange.To < jf.KeyRange.From {
		errs = append(errs, fmt.Errorf("key_range: to (%d) is before from (%d)", jf.KeyRange.To, jf.KeyRange.From))
	}
	return errors.Join(errs...)
}

// SourcePath returns the source workbook path.
func (jf *JobFile) SourcePath() string { return jf.resolve(jf.Source) }

func (jf *JobFile) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || jf.dir == "" {
		return path
	}
	return filepath.Join(jf.dir, path)
}

// outputDir returns the directory copies are written to, defaulting to the
// source's directory.
func (jf *JobFile) outputDir() string {
	if dir := jf.resolve(jf.OutputDir); dir != "" {
		return dir
	}
	return filepath.Dir(jf.SourcePath())
}

// OutputPath returns the path of the copy made for key.
func (jf *JobFile) OutputPath(key any) string {
	return filepath.Join(jf.outputDir(), formatKey(jf.Output, key))
}

// BatchKeys returns the explicit keys followed by the key range, or a single
// nil key when neither is set.
func (jf *JobFile) BatchKeys() []any {
	keys := append([]any(nil), jf.Keys...)
	if jf.KeyRange != nil {
		for k := jf.KeyRange.From; k <= jf.KeyRange.To; k++ {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return []any{nil}
	}
	return keys
}

// Batch compiles the job file. opts are added to every job's session
// options, e.g. WithLogger. Keys whose copies would share a path, such as
// 7 and "7" under "%v", are rejected.
func (jf *JobFile) Batch(opts ...Option) (Batch, error) {
	op, err := ParseBoolOperator(jf.Operator)
	if err != nil {
		return Batch{}, err
	}
	keys := jf.BatchKeys()
	seen := make(map[string]any, len(keys))
	for _, key := range keys {
		out := jf.OutputPath(key)
		if prev, dup := seen[out]; dup {
			return Batch{}, fmt.Errorf("keys %v and %v both write %q", prev, key, out)
		}
		seen[out] = key
	}
	return Batch{
		Keys:    keys,
		Workers: jf.Workers,
		Build: func(key any) (Job, error) {
			return jf.job(key, op, opts)
		},
	}, nil
}

func (jf *JobFile) job(key any, op BoolOperator, opts []Option) (Job, error) {
	vars := map[string]any{"key": key}
	conds := make([]Condition, 0, len(jf.Conditions))
	for _, c := range jf.Conditions {
		cond, err := WhereExpr(c.Column, c.Expr, vars)
		if err != nil {
			return Job{}, err
		}
		conds = append(conds, cond)
	}
	formulas := make([]FormulaSpec, 0, len(jf.Formulas))
	for _, f := range jf.Formulas {
		formulas = append(formulas, FormulaSpec{
			Column:       f.Column,
			Generate:     FormulaTemplate(f.Template),
			NumberFormat: f.Format,
		})
	}

	sessionOpts := []Option{
		WithCopyDir(jf.outputDir()),
		WithOutputName(formatKey(jf.Output, key)),
		WithRecalculateOnOpen(jf.RecalculateOnOpen),
	}
	return Job{
		Sheet:              jf.Sheet,
		HeaderRow:          jf.HeaderRow,
		FirstModifiableRow: jf.FirstModifiableRow,
		ProtectedRows:      jf.ProtectedRows,
		Rename:             formatKey(jf.Rename, key),
		Conditions:         conds,
		Operator:           op,
		Formulas:           formulas,
		Options:            append(sessionOpts, opts...),
	}, nil
}

// formatKey formats pattern with key, leaving it unchanged without a key.
func formatKey(pattern string, key any) string {
	if key == nil || pattern == "" || !strings.Contains(pattern, "%") {
		return pattern
	}
	return fmt.Sprintf(pattern, key)
}
