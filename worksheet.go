package xlcull

// Worksheet is a sheet staged for culling and formula injection. It keeps
// the header row and the set of protected rows, remapped after every cull
// so the indices always refer to the sheet as it currently is.
type Worksheet struct {
	session            *Workbook // non-owning; renames go through its API
	sessionID          string
	name               string
	headerRow          int
	firstModifiableRow int
	protected          RowSet
}

// FormulaResult reports the outcome of AddFormulas.
type FormulaResult struct {
	Cells     ModifiedCells
	Protected RowSet // the protected rows skipped, or nil when rows were explicit
}

// Name returns the current sheet name.
func (ws *Worksheet) Name() string { return ws.name }

// SessionID returns the identifier of the owning Workbook session.
func (ws *Worksheet) SessionID() string { return ws.sessionID }

// HeaderRow returns the header row.
func (ws *Worksheet) HeaderRow() int { return ws.headerRow }

// ProtectedRows returns a copy of the tracked protected rows.
func (ws *Worksheet) ProtectedRows() RowSet { return ws.protected.Clone() }

// SetProtectedRows replaces the tracked protected rows. The header and
// rows before the first modifiable row are always added.
func (ws *Worksheet) SetProtectedRows(rows RowSet) {
	ws.protected = ComputeProtected(ws.headerRow, ws.firstModifiableRow, rows)
}

// IsLoaded reports whether the owning workbook is open.
func (ws *Worksheet) IsLoaded() bool { return ws.session.IsLoaded() }

// Rename renames the sheet through the owning Workbook.
func (ws *Worksheet) Rename(newName string) error {
	return ws.session.RenameSheet(ws.name, newName)
}

// Grid returns a Grid over the sheet in the open workbook.
func (ws *Worksheet) Grid() (*SheetGrid, error) {
	if err := ws.session.mandateLoaded(); err != nil {
		return nil, err
	}
	return NewSheetGrid(ws.session.file, ws.name)
}

// FindColumn returns the 1-based column whose header is exactly name.
func (ws *Worksheet) FindColumn(name string) (int, error) {
	g, err := ws.Grid()
	if err != nil {
		return 0, err
	}
	return FindColumn(g, ws.headerRow, name)
}

// ModifiableRows returns every existing row not in protected, or not in the
// tracked protected rows when protected is nil.
func (ws *Worksheet) ModifiableRows(protected RowSet) ([]int, error) {
	g, err := ws.Grid()
	if err != nil {
		return nil, err
	}
	if protected == nil {
		protected = ws.protected
	}
	return TargetRows(g, protected)
}

// resolveProtected returns the protection set for a call and whether it came
// from WithProtected.
func (ws *Worksheet) resolveProtected(o *CallOptions) (RowSet, bool) {
	if o.protected != nil {
		return ComputeProtected(ws.headerRow, ws.firstModifiableRow, o.protected), true
	}
	return ws.protected.Clone(), false
}

// Cull deletes the rows not selected by conds combined with op.
// See the package-level Cull for the selection rules.
//
// The returned result carries the call's protected rows after deletion.
// Without WithProtected those rows become the tracked set; with it the
// tracked set is only shifted past the deleted ranges.
func (ws *Worksheet) Cull(conds []Condition, op BoolOperator, opts ...CallOption) (CullResult, error) {
	g, err := ws.Grid()
	if err != nil {
		return CullResult{}, err
	}
	o := &CallOptions{}
	for _, opt := range opts {
		opt(o)
	}
	protected, explicit := ws.resolveProtected(o)

	res, err := Cull(g, CullSpec{
		HeaderRow:  ws.headerRow,
		Conditions: conds,
		Operator:   op,
		Protected:  protected,
	})
	if res.Protected != nil {
		if explicit {
			ws.protected = RemapProtected(ws.protected, res.Deleted)
		} else {
			ws.protected = res.Protected.Clone()
		}
	}

	logger := ws.session.log.With().Str("sheet", ws.name).Logger()
	if err != nil {
		logger.Debug().Err(err).Int("deleted", res.DeletedCount()).Msg("cull failed")
		return res, err
	}
	logger.Debug().
		Str("operator", string(op)).
		Int("conditions", len(conds)).
		Int("rows_before", res.RowsBefore).
		Int("deleted", res.DeletedCount()).
		Msg("culled worksheet")
	return res, nil
}

// AddFormulas writes generated formulas into the sheet. With WithRows it
// writes exactly those rows; otherwise it writes every existing row that is
// not protected.
func (ws *Worksheet) AddFormulas(specs []FormulaSpec, opts ...CallOption) (FormulaResult, error) {
	g, err := ws.Grid()
	if err != nil {
		return FormulaResult{}, err
	}
	o := &CallOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if len(specs) == 0 {
		return FormulaResult{Cells: ModifiedCells{}}, nil
	}

	var protected RowSet
	rows := o.rows
	if !o.rowsSet {
		protected, _ = ws.resolveProtected(o)
		rows, err = TargetRows(g, protected)
		if err != nil {
			return FormulaResult{}, err
		}
	}

	if len(o.numberFormats) > 0 {
		specs = withNumberFormats(specs, o.numberFormats)
	}
	cells, err := AddFormulas(g, specs, rows)
	if err != nil {
		return FormulaResult{Cells: cells, Protected: protected}, err
	}
	ws.session.log.Debug().Str("sheet", ws.name).Int("rows", len(rows)).
		Int("columns", len(specs)).Msg("added formulas")
	return FormulaResult{Cells: cells, Protected: protected}, nil
}

// withNumberFormats returns a copy of specs with formats applied by column.
func withNumberFormats(specs []FormulaSpec, formats map[string]string) []FormulaSpec {
	out := make([]FormulaSpec, len(specs))
	for i, spec := range specs {
		if f, ok := formats[spec.Column]; ok {
			spec.NumberFormat = f
		}
		out[i] = spec
	}
	return out
}
