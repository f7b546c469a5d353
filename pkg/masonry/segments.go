package masonry

import "math"

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width" toml:"width" yaml:"width" bson:"width"`
	Height float64 `json:"height" toml:"height" yaml:"height" bson:"height"`
}

// Segments describes the grid: how many columns and rows the container holds
// and how large each cell is.
type Segments struct {
	Cols        int     `json:"cols" bson:"cols"`
	Rows        int     `json:"rows" bson:"rows"`
	ColumnWidth float64 `json:"column_width" bson:"column_width"`
	RowHeight   float64 `json:"row_height" bson:"row_height"`
}

// ComputeSegments derives the grid segments for a container.
//
// Without cfg.Liquid the counts are floor(container/cell), at least 1, and the
// cell sizes are returned unchanged. With cfg.Liquid the counts may be forced by
// cfg.Cols/cfg.Rows, are clamped into the configured bounds, and both cell sizes
// are then scaled by one factor so that the counted cells span the container
// along the axis the orientation tiles (width for Vertical, height for
// Horizontal). Scaled sizes are floored to whole pixels.
//
// Non-positive cell sizes and zero-sized containers never fail; every derived
// count and cell size is at least 1.
func ComputeSegments(container Size, cfg Config, columnWidth, rowHeight float64) Segments {
	cfg = cfg.WithDefaults()
	columnWidth = cellSize(columnWidth)
	rowHeight = cellSize(rowHeight)

	seg := Segments{
		Cols:        fit(container.Width, columnWidth),
		Rows:        fit(container.Height, rowHeight),
		ColumnWidth: columnWidth,
		RowHeight:   rowHeight,
	}
	if !cfg.Liquid {
		return seg
	}

	if cfg.Cols > 0 {
		seg.Cols = cfg.Cols
	}
	if cfg.Rows > 0 {
		seg.Rows = cfg.Rows
	}
	seg.Cols = clamp(seg.Cols, cfg.MinCols, cfg.MaxCols)
	seg.Rows = clamp(seg.Rows, cfg.MinRows, cfg.MaxRows)

	var diff float64
	if cfg.Orientation == Horizontal {
		diff = rowHeight / (container.Height / float64(seg.Rows))
	} else {
		diff = columnWidth / (container.Width / float64(seg.Cols))
	}
	seg.ColumnWidth = cellSize(math.Floor(columnWidth / diff))
	seg.RowHeight = cellSize(math.Floor(rowHeight / diff))
	return seg
}

// fit returns how many whole cells fit into extent, at least 1.
func fit(extent, cell float64) int {
	n := math.Floor(extent / cell)
	if math.IsNaN(n) || n < 1 {
		return 1
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// cellSize forces a usable cell size of at least one pixel.
func cellSize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
