package xlcull

// ComputeProtected builds the set of rows that culling must never delete:
// the explicit rows, every row before firstModifiableRow, and the header.
// firstModifiableRow <= 0 defaults to the row after the header.
func ComputeProtected(headerRow, firstModifiableRow int, explicit RowSet) RowSet {
	if firstModifiableRow <= 0 {
		firstModifiableRow = headerRow + 1
	}
	protected := explicit.Clone()
	for r := 1; r < firstModifiableRow; r++ {
		protected[r] = struct{}{}
	}
	protected[headerRow] = struct{}{}
	return protected
}

// RemapProtected shifts each row up by the number of deleted rows above it.
// Rows inside a deleted range no longer exist and are dropped.
func RemapProtected(protected RowSet, deleted []Range) RowSet {
	remapped := make(RowSet, len(protected))
rows:
	for r := range protected {
		shift := 0
		for _, d := range deleted {
			if d.Contains(r) {
				continue rows
			}
			if d.Last < r {
				shift += d.Len()
			}
		}
		remapped[r-shift] = struct{}{}
	}
	return remapped
}
