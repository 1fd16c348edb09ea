package xlcull

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Workbook is a copy-on-open session over a workbook file. The source file
// is copied once when the session opens; every change happens on the copy
// and reaches disk only on Save or Close(true).
//
// A Workbook is not safe for concurrent use.
type Workbook struct {
	id     string
	source string
	path   string
	file   *excelize.File // nil while closed
	sheets map[string]*Worksheet
	opts   *Options
	log    zerolog.Logger
}

// Open copies src to the destination chosen by opts and opens the copy.
func Open(src string, opts ...Option) (*Workbook, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	dest := destinationPath(src, o)
	same, err := samePath(src, dest)
	if err != nil {
		return nil, err
	}
	if same && !o.overwriteOriginal {
		return nil, &PathError{Source: src, Destination: dest}
	}

	id := newSessionID()
	w := &Workbook{
		id:     id,
		source: src,
		path:   dest,
		sheets: make(map[string]*Worksheet),
		opts:   o,
		log:    o.logger.With().Str("session", id).Logger(),
	}
	if !same {
		if err := copyFile(src, dest); err != nil {
			return nil, err
		}
		w.log.Debug().Str("source", src).Str("copy", dest).Msg("copied workbook")
	}
	if err := w.Load(); err != nil {
		return nil, err
	}
	return w, nil
}

// newSessionID returns a time-ordered UUID, falling back to a random one.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

func destinationPath(src string, o *Options) string {
	if o.destination != "" {
		return o.destination
	}
	dir := o.copyDir
	if dir == "" {
		dir = filepath.Dir(src)
	}
	name := o.outputName
	if name == "" {
		name = filepath.Base(src)
	}
	return filepath.Join(dir, name)
}

// samePath reports whether a and b name the same file.
func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, fmt.Errorf("resolve %q: %w", a, err)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, fmt.Errorf("resolve %q: %w", b, err)
	}
	if absA == absB {
		return true, nil
	}
	infoA, errA := os.Stat(absA)
	infoB, errB := os.Stat(absB)
	if errA != nil || errB != nil {
		return false, nil
	}
	return os.SameFile(infoA, infoB), nil
}

// copyFile copies src to dst verbatim, creating dst's directory.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory for %q: %w", dst, err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source workbook %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create copy %q: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy %q to %q: %w", src, dst, err)
	}
	return out.Close()
}

// ID returns the session identifier.
func (w *Workbook) ID() string { return w.id }

// Source returns the path of the original workbook.
func (w *Workbook) Source() string { return w.source }

// Path returns the path of the working copy.
func (w *Workbook) Path() string { return w.path }

// IsLoaded reports whether the working copy is open.
func (w *Workbook) IsLoaded() bool { return w.file != nil }

// File returns the open excelize file, or nil while closed.
func (w *Workbook) File() *excelize.File { return w.file }

func (w *Workbook) mandateLoaded() error {
	if w.file == nil {
		return fmt.Errorf("workbook %q: %w", w.path, ErrNotLoaded)
	}
	return nil
}

// Load opens the working copy. Loading an open workbook does nothing.
func (w *Workbook) Load() error {
	if w.file != nil {
		return nil
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return fmt.Errorf("open workbook %q: %w", w.path, err)
	}
	w.file = f
	w.log.Debug().Str("path", w.path).Msg("loaded workbook")
	return nil
}

// Save writes the working copy to disk.
func (w *Workbook) Save() error {
	if err := w.mandateLoaded(); err != nil {
		return err
	}
	if w.opts.recalculateOnOpen {
		fullCalc := true
		if err := w.file.SetCalcProps(&excelize.CalcPropsOptions{FullCalcOnLoad: &fullCalc}); err != nil {
			return fmt.Errorf("set calc props: %w", err)
		}
	}
	if err := w.file.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook %q: %w", w.path, err)
	}
	w.log.Debug().Str("path", w.path).Msg("saved workbook")
	return nil
}

// Close closes the working copy, saving it first when save is true.
// Closing a closed workbook does nothing. Staged worksheets stay staged
// and become usable again after Load.
func (w *Workbook) Close(save bool) error {
	if w.file == nil {
		return nil
	}
	var saveErr error
	if save {
		saveErr = w.Save()
	}
	closeErr := w.file.Close()
	w.file = nil
	w.log.Debug().Bool("saved", save && saveErr == nil).Msg("closed workbook")
	if closeErr != nil {
		closeErr = fmt.Errorf("close workbook %q: %w", w.path, closeErr)
	}
	return errors.Join(saveErr, closeErr)
}

// CopyTo copies the source workbook to path. When stage is true the copy
// becomes the session's working copy, which requires the workbook to be
// closed first.
func (w *Workbook) CopyTo(path string, stage bool) error {
	if stage && w.file != nil {
		return fmt.Errorf("workbook %q is open; close it before staging a new copy", w.path)
	}
	same, err := samePath(w.source, path)
	if err != nil {
		return err
	}
	if same {
		return &PathError{Source: w.source, Destination: path}
	}
	if err := copyFile(w.source, path); err != nil {
		return err
	}
	if stage {
		w.path = path
	}
	w.log.Debug().Str("copy", path).Bool("staged", stage).Msg("copied workbook")
	return nil
}

// SheetList returns the names of all sheets in the open workbook.
func (w *Workbook) SheetList() ([]string, error) {
	if err := w.mandateLoaded(); err != nil {
		return nil, err
	}
	return w.file.GetSheetList(), nil
}

// Stage prepares a sheet for culling and formula injection.
func (w *Workbook) Stage(sheet string, opts ...StageOption) (*Worksheet, error) {
	if err := w.mandateLoaded(); err != nil {
		return nil, err
	}
	o := &StageOptions{headerRow: 1, firstModifiableRow: -1}
	for _, opt := range opts {
		opt(o)
	}
	if o.headerRow < 1 {
		return nil, fmt.Errorf("stage sheet %q: header row must be >= 1, got %d", sheet, o.headerRow)
	}
	if idx, err := w.file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("stage sheet %q: sheet does not exist in %q", sheet, w.path)
	}

	ws := &Worksheet{
		session:            w,
		sessionID:          w.id,
		name:               sheet,
		headerRow:          o.headerRow,
		firstModifiableRow: o.firstModifiableRow,
		protected:          ComputeProtected(o.headerRow, o.firstModifiableRow, o.protectedRows),
	}
	prev, restaged := w.sheets[sheet]
	w.sheets[sheet] = ws
	if o.rename != "" {
		if err := w.RenameSheet(sheet, o.rename); err != nil {
			if restaged {
				w.sheets[sheet] = prev
			} else {
				delete(w.sheets, sheet)
			}
			return nil, err
		}
	}
	w.log.Debug().Str("sheet", sheet).Str("name", ws.name).Int("header_row", o.headerRow).
		Ints("protected", ws.protected.Sorted()).Msg("staged worksheet")
	return ws, nil
}

// Sheet returns a staged worksheet by its current name.
func (w *Workbook) Sheet(name string) (*Worksheet, error) {
	ws, ok := w.sheets[name]
	if !ok {
		return nil, fmt.Errorf("worksheet %q: %w (stage it first)", name, ErrSheetNotStaged)
	}
	return ws, nil
}

// Sheets returns the names of all staged worksheets, sorted.
func (w *Workbook) Sheets() []string {
	names := make([]string, 0, len(w.sheets))
	for name := range w.sheets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RenameSheet renames a staged worksheet. The new name must not belong to
// any other sheet in the workbook, compared case-insensitively as Excel
// does. The worksheet is afterwards looked up by its new name only.
func (w *Workbook) RenameSheet(oldName, newName string) error {
	if err := w.mandateLoaded(); err != nil {
		return err
	}
	ws, err := w.Sheet(oldName)
	if err != nil {
		return err
	}
	if ws.sessionID != w.id {
		return fmt.Errorf("worksheet %q belongs to session %s", oldName, ws.sessionID)
	}
	if !strings.EqualFold(newName, oldName) {
		for _, existing := range w.file.GetSheetList() {
			if strings.EqualFold(existing, newName) {
				return fmt.Errorf("rename sheet %q: a sheet named %q already exists", oldName, existing)
			}
		}
	}
	if err := w.file.SetSheetName(oldName, newName); err != nil {
		return fmt.Errorf("rename sheet %q to %q: %w", oldName, newName, err)
	}
	delete(w.sheets, oldName)
	ws.name = newName
	w.sheets[newName] = ws
	w.log.Debug().Str("sheet", oldName).Str("new_name", newName).Msg("renamed worksheet")
	return nil
}

// DeleteSheet removes a sheet from the workbook, staged or not.
func (w *Workbook) DeleteSheet(name string) error {
	if err := w.mandateLoaded(); err != nil {
		return err
	}
	if idx, err := w.file.GetSheetIndex(name); err != nil || idx < 0 {
		return fmt.Errorf("delete sheet %q: sheet does not exist in %q", name, w.path)
	}
	if err := w.file.DeleteSheet(name); err != nil {
		return fmt.Errorf("delete sheet %q: %w", name, err)
	}
	delete(w.sheets, name)
	w.log.Debug().Str("sheet", name).Msg("deleted worksheet")
	return nil
}
