package masonry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOrientation is returned when parsing an unrecognized orientation name.
var ErrUnknownOrientation = errors.New("unknown orientation")

// Orientation selects the direction the grid grows in.
type Orientation int

const (
	// Vertical grows downwards: rows are filled top to bottom, each row left to right.
	Vertical Orientation = iota

	// Horizontal grows rightwards: columns are filled left to right, each column top to bottom.
	Horizontal
)

// String returns the lower-case orientation name.
func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseOrientation parses "vertical" or "horizontal" (case-insensitive).
// An empty string yields Vertical.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vertical":
		return Vertical, nil
	case "horizontal":
		return Horizontal, nil
	default:
		return Vertical, fmt.Errorf("%w: %q (must be vertical or horizontal)", ErrUnknownOrientation, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	v, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// split maps a (col, row) pair onto (primary, secondary) scan coordinates.
func (o Orientation) split(col, row int) (primary, secondary int) {
	if o == Horizontal {
		return col, row
	}
	return row, col
}

// join is the inverse of split.
func (o Orientation) join(primary, secondary int) (col, row int) {
	if o == Horizontal {
		return primary, secondary
	}
	return secondary, primary
}

// secondaryCount is the number of cells available along the inner scan axis.
func (o Orientation) secondaryCount(seg Segments) int {
	if o == Horizontal {
		return seg.Rows
	}
	return seg.Cols
}
