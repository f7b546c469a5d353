package masonry

import "math"

// Span is the number of grid cells an item covers along each axis.
type Span struct {
	Cols int `json:"cols" bson:"cols"`
	Rows int `json:"rows" bson:"rows"`
}

// Area returns the number of cells covered.
func (s Span) Area() int { return s.Cols * s.Rows }

// SpanOf returns ceil(width/columnWidth) x ceil(height/rowHeight). Every item
// covers at least one cell on each axis, so zero-sized items still take a slot.
func SpanOf(size Size, columnWidth, rowHeight float64) Span {
	return Span{
		Cols: cells(size.Width, cellSize(columnWidth)),
		Rows: cells(size.Height, cellSize(rowHeight)),
	}
}

func cells(extent, cell float64) int {
	n := math.Ceil(extent / cell)
	if math.IsNaN(n) || n < 1 {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// Item is one element to place: its outer size in pixels, margins included.
type Item struct {
	ID     string  `json:"id,omitempty" toml:"id" yaml:"id" bson:"id,omitempty"`
	Width  float64 `json:"width" toml:"width" yaml:"width" bson:"width"`
	Height float64 `json:"height" toml:"height" yaml:"height" bson:"height"`
}

// Size returns the item's outer size.
func (it Item) Size() Size { return Size{Width: it.Width, Height: it.Height} }

// spanKey identifies an item across passes. Named items are keyed by ID and
// unnamed ones by input position; the two never collide.
type spanKey struct {
	id    string
	index int
}

func (it Item) key(index int) spanKey {
	if it.ID != "" {
		return spanKey{id: it.ID, index: -1}
	}
	return spanKey{index: index}
}
