package masonry

// Placement is the outcome for one item.
type Placement struct {
	ID    string `json:"id,omitempty" bson:"id,omitempty"`
	Index int    `json:"index" bson:"index"`

	// X and Y are the top-left pixel offset, or Unplaceable for both when the
	// item found no free block.
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`

	// Width and Height are the rendered size: the item's own size, or the full
	// size of its cells in liquid layouts.
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`

	Col    int  `json:"col" bson:"col"`
	Row    int  `json:"row" bson:"row"`
	Span   Span `json:"span" bson:"span"`
	Placed bool `json:"placed" bson:"placed"`
}

// Result is the output of one layout pass.
type Result struct {
	// Placements holds one entry per input item, in input order.
	Placements []Placement `json:"placements" bson:"placements"`

	// Container is the pixel size covered by placed items.
	Container Size `json:"container" bson:"container"`

	Segments Segments `json:"segments" bson:"segments"`

	// GridCols and GridRows are the occupied extent of the grid in cells.
	GridCols int `json:"grid_cols" bson:"grid_cols"`
	GridRows int `json:"grid_rows" bson:"grid_rows"`

	// Unplaced counts items left at the Unplaceable position.
	Unplaced int `json:"unplaced" bson:"unplaced"`
}

// pass holds the mutable state of a single layout pass.
type pass struct {
	orient    Orientation
	seg       Segments
	scanLimit int
	grid      *Grid
	extent    *Extent
	liquid    bool
}

// place finds the first free block for an item of the given span, marks it and
// returns the item's placement. Scanning runs primary-major from the origin, so
// the earliest free block in scan order always wins.
func (ps *pass) place(index int, it Item, span Span) Placement {
	pSpan, sSpan := ps.orient.split(span.Cols, span.Rows)
	sCount := ps.orient.secondaryCount(ps.seg)

	// Oversized items still get one anchor per primary instead of none.
	sLimit := max(sCount-sSpan+1, 1)

	p, s, ok := ps.firstFit(pSpan, sSpan, sLimit)
	if !ok {
		return Placement{
			ID:     it.ID,
			Index:  index,
			X:      Unplaceable,
			Y:      Unplaceable,
			Width:  it.Width,
			Height: it.Height,
			Col:    -1,
			Row:    -1,
			Span:   span,
		}
	}

	ps.grid.Mark(p, s, pSpan, sSpan, index)
	col, row := ps.orient.join(p, s)
	ps.extent.Include(col, row, span, ps.seg)

	w, h := it.Width, it.Height
	if ps.liquid {
		w = ps.seg.ColumnWidth * float64(span.Cols)
		h = ps.seg.RowHeight * float64(span.Rows)
	}
	return Placement{
		ID:     it.ID,
		Index:  index,
		X:      float64(col) * ps.seg.ColumnWidth,
		Y:      float64(row) * ps.seg.RowHeight,
		Width:  w,
		Height: h,
		Col:    col,
		Row:    row,
		Span:   span,
		Placed: true,
	}
}

// firstFit scans primaries [0, scanLimit) and, within each, secondaries
// [0, sLimit). Only a block longer than the scan limit is rejected up front;
// width is bounded by sLimit alone, so an oversized block still anchors at
// secondary 0. After a collision the scan resumes past the colliding block.
func (ps *pass) firstFit(pSpan, sSpan, sLimit int) (p, s int, ok bool) {
	if pSpan > ps.scanLimit {
		return 0, 0, false
	}
	for p = 0; p < ps.scanLimit; p++ {
		for s = 0; s < sLimit; {
			b, hit := ps.grid.collision(p, s, pSpan, sSpan)
			if !hit {
				return p, s, true
			}
			s = b.s + b.sSpan
		}
	}
	return 0, 0, false
}
