package masonry

const (
	// DefaultMinSegments is the lower bound for liquid column and row counts.
	DefaultMinSegments = 1

	// DefaultMaxSegments is the upper bound for liquid column and row counts.
	DefaultMaxSegments = 9999

	// DefaultScanLimit bounds how far along the primary axis a single item is searched for.
	DefaultScanLimit = 10000

	// Unplaceable is the pixel coordinate given to items that found no free block.
	Unplaceable = -9999
)

// Config holds the per-session layout configuration.
//
// Zero values mean "unset": ColumnWidth and RowHeight then default to the first
// item's size, Cols and Rows are derived from the container, and the bounds take
// the Default* constants. Cols, Rows and the min/max bounds only apply to liquid
// layouts.
type Config struct {
	Orientation Orientation `json:"orientation" toml:"orientation" yaml:"orientation" bson:"orientation"`
	ColumnWidth float64     `json:"column_width,omitempty" toml:"column_width" yaml:"column_width" bson:"column_width,omitempty"`
	RowHeight   float64     `json:"row_height,omitempty" toml:"row_height" yaml:"row_height" bson:"row_height,omitempty"`
	Liquid      bool        `json:"liquid,omitempty" toml:"liquid" yaml:"liquid" bson:"liquid,omitempty"`

	Cols    int `json:"cols,omitempty" toml:"cols" yaml:"cols" bson:"cols,omitempty"`
	Rows    int `json:"rows,omitempty" toml:"rows" yaml:"rows" bson:"rows,omitempty"`
	MinCols int `json:"min_cols,omitempty" toml:"min_cols" yaml:"min_cols" bson:"min_cols,omitempty"`
	MinRows int `json:"min_rows,omitempty" toml:"min_rows" yaml:"min_rows" bson:"min_rows,omitempty"`
	MaxCols int `json:"max_cols,omitempty" toml:"max_cols" yaml:"max_cols" bson:"max_cols,omitempty"`
	MaxRows int `json:"max_rows,omitempty" toml:"max_rows" yaml:"max_rows" bson:"max_rows,omitempty"`

	// ScanLimit caps the primary-axis search per item. Items that do not fit
	// within it are reported at the Unplaceable position.
	ScanLimit int `json:"scan_limit,omitempty" toml:"scan_limit" yaml:"scan_limit" bson:"scan_limit,omitempty"`

	// ResizeOrientationOnly makes ResizeChanged compare only the count that
	// shapes the layout: columns for Vertical, rows for Horizontal.
	ResizeOrientationOnly bool `json:"resize_orientation_only,omitempty" toml:"resize_orientation_only" yaml:"resize_orientation_only" bson:"resize_orientation_only,omitempty"`
}

// WithDefaults returns a copy of c with unset bounds filled in. A maximum below
// its minimum is raised to the minimum so that clamping stays well defined.
func (c Config) WithDefaults() Config {
	if c.MinCols < DefaultMinSegments {
		c.MinCols = DefaultMinSegments
	}
	if c.MinRows < DefaultMinSegments {
		c.MinRows = DefaultMinSegments
	}
	if c.MaxCols <= 0 {
		c.MaxCols = DefaultMaxSegments
	}
	if c.MaxRows <= 0 {
		c.MaxRows = DefaultMaxSegments
	}
	c.MaxCols = max(c.MaxCols, c.MinCols)
	c.MaxRows = max(c.MaxRows, c.MinRows)
	if c.ScanLimit <= 0 {
		c.ScanLimit = DefaultScanLimit
	}
	return c
}
