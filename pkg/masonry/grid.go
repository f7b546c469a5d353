package masonry

import (
	"cmp"
	"slices"
)

// block is one placed item's rectangle in scan coordinates.
type block struct {
	p, s         int
	pSpan, sSpan int
	owner        int
}

func (b block) overlaps(p, s, pSpan, sSpan int) bool {
	return p < b.p+b.pSpan && b.p < p+pSpan &&
		s < b.s+b.sSpan && b.s < s+sSpan
}

// Grid is an occupancy map in scan coordinates: primary is the axis the grid
// grows along, secondary the axis scanned within one primary index.
//
// Placed items are stored as rectangles, so memory grows with the number of
// items and not with their area. Anything outside every rectangle is free,
// which lets the grid grow implicitly along both axes.
type Grid struct {
	blocks []block
	area   int
	extP   int
	extS   int
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{}
}

// Occupied reports whether the cell at (p, s) is covered by a placed item.
func (g *Grid) Occupied(p, s int) bool {
	_, ok := g.collision(p, s, 1, 1)
	return ok
}

// Owner returns the index of the item covering (p, s).
func (g *Grid) Owner(p, s int) (int, bool) {
	b, ok := g.collision(p, s, 1, 1)
	return b.owner, ok
}

// Fits reports whether the pSpan x sSpan block anchored at (p, s) is entirely free.
func (g *Grid) Fits(p, s, pSpan, sSpan int) bool {
	_, hit := g.collision(p, s, pSpan, sSpan)
	return !hit
}

// collision returns the earliest placed block overlapping the given one.
func (g *Grid) collision(p, s, pSpan, sSpan int) (block, bool) {
	if pSpan <= 0 || sSpan <= 0 {
		return block{}, false
	}
	for _, b := range g.blocks {
		if b.overlaps(p, s, pSpan, sSpan) {
			return b, true
		}
	}
	return block{}, false
}

// Mark records owner on the block anchored at (p, s). Callers check Fits
// first; an overlapping block is ignored so an existing owner is never
// overwritten.
func (g *Grid) Mark(p, s, pSpan, sSpan, owner int) {
	if !g.Fits(p, s, pSpan, sSpan) || pSpan <= 0 || sSpan <= 0 {
		return
	}
	g.blocks = append(g.blocks, block{p: p, s: s, pSpan: pSpan, sSpan: sSpan, owner: owner})
	g.area += pSpan * sSpan
	g.extP = max(g.extP, p+pSpan)
	g.extS = max(g.extS, s+sSpan)
}

// Extent returns the occupied extent: one past the largest marked primary and
// secondary index.
func (g *Grid) Extent() (primary, secondary int) {
	return g.extP, g.extS
}

// Block is one placed item's rectangle in column/row coordinates.
type Block struct {
	Col   int  `json:"col"`
	Row   int  `json:"row"`
	Span  Span `json:"span"`
	Owner int  `json:"owner"`
}

// Blocks lists the placed rectangles in column/row coordinates for
// orientation o, sorted by row, then column.
func (g *Grid) Blocks(o Orientation) []Block {
	out := make([]Block, 0, len(g.blocks))
	for _, b := range g.blocks {
		col, row := o.join(b.p, b.s)
		cols, rows := o.join(b.pSpan, b.sSpan)
		out = append(out, Block{Col: col, Row: row, Span: Span{Cols: cols, Rows: rows}, Owner: b.owner})
	}
	slices.SortFunc(out, func(a, b Block) int {
		if a.Row != b.Row {
			return cmp.Compare(a.Row, b.Row)
		}
		return cmp.Compare(a.Col, b.Col)
	})
	return out
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int { return g.area }
