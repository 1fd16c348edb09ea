package xlcull

import "github.com/rs/zerolog"

// Options holds configuration for a Workbook session.
type Options struct {
	copyDir           string
	outputName        string
	destination       string
	overwriteOriginal bool
	recalculateOnOpen bool
	logger            zerolog.Logger
}

func defaultOptions() *Options {
	return &Options{
		logger: zerolog.Nop(),
	}
}

// Option configures a Workbook session.
type Option func(*Options)

// WithCopyDir sets the directory the working copy is written to
// (default: the source workbook's directory).
func WithCopyDir(dir string) Option {
	return func(o *Options) { o.copyDir = dir }
}

// WithOutputName sets the file name (not the path) of the working copy.
func WithOutputName(name string) Option {
	return func(o *Options) { o.outputName = name }
}

// WithDestination sets the full path of the working copy, overriding
// WithCopyDir and WithOutputName.
func WithDestination(path string) Option {
	return func(o *Options) { o.destination = path }
}

// WithOverwriteOriginal allows the working copy to be the source file itself.
func WithOverwriteOriginal(overwrite bool) Option {
	return func(o *Options) { o.overwriteOriginal = overwrite }
}

// WithRecalculateOnOpen tells Excel to recalculate all formulas when the saved file is opened.
func WithRecalculateOnOpen(recalc bool) Option {
	return func(o *Options) { o.recalculateOnOpen = recalc }
}

// WithLogger sets the logger for session events (default: disabled).
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// StageOptions holds configuration for staging a worksheet.
type StageOptions struct {
	headerRow          int
	firstModifiableRow int
	protectedRows      RowSet
	rename             string
}

// StageOption configures a staged worksheet.
type StageOption func(*StageOptions)

// WithHeaderRow sets the row holding column headers (default: 1).
func WithHeaderRow(row int) StageOption {
	return func(o *StageOptions) { o.headerRow = row }
}

// WithFirstModifiableRow sets the first row that may be deleted or modified
// (default: the row after the header). Every earlier row is protected.
func WithFirstModifiableRow(row int) StageOption {
	return func(o *StageOptions) { o.firstModifiableRow = row }
}

// WithProtectedRows sets rows that culling never deletes.
func WithProtectedRows(rows ...int) StageOption {
	return func(o *StageOptions) { o.protectedRows = NewRowSet(rows...) }
}

// WithRename renames the sheet once it is staged.
func WithRename(name string) StageOption {
	return func(o *StageOptions) { o.rename = name }
}

// CallOptions holds per-call configuration for Cull and AddFormulas.
type CallOptions struct {
	protected     RowSet
	rows          []int
	rowsSet       bool
	numberFormats map[string]string
}

// CallOption configures a single Cull or AddFormulas call.
type CallOption func(*CallOptions)

// WithProtected protects rows for this call only, instead of the rows the
// worksheet tracks. The header and rows before the first modifiable row are
// always added.
func WithProtected(rows ...int) CallOption {
	return func(o *CallOptions) { o.protected = NewRowSet(rows...) }
}

// WithRows makes AddFormulas write exactly these rows, protected or not.
func WithRows(rows ...int) CallOption {
	return func(o *CallOptions) {
		o.rows = rows
		o.rowsSet = true
	}
}

// WithNumberFormats sets number formats per column letter for AddFormulas,
// overriding FormulaSpec.NumberFormat.
func WithNumberFormats(formats map[string]string) CallOption {
	return func(o *CallOptions) { o.numberFormats = formats }
}
