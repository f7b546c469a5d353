package masonry

// Extent accumulates the container size reached by placed items. It only ever
// grows within a pass; Reset starts a new pass from zero.
type Extent struct {
	size Size
}

// Reset sets the extent back to zero.
func (e *Extent) Reset() { e.size = Size{} }

// Include grows the extent to cover an item at (col, row) with the given span.
func (e *Extent) Include(col, row int, span Span, seg Segments) {
	e.size.Width = max(e.size.Width, float64(col+span.Cols)*seg.ColumnWidth)
	e.size.Height = max(e.size.Height, float64(row+span.Rows)*seg.RowHeight)
}

// Size returns the current extent.
func (e *Extent) Size() Size { return e.size }
