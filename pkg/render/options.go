package render

import (
	"strconv"

	bwio "github.com/matzehuels/brickwall/pkg/io"
	"github.com/matzehuels/brickwall/pkg/masonry"
)

// DefaultPalette colors placed items, cycling by item index.
var DefaultPalette = []string{"#7D56F4", "#F25D94", "#43BF6D", "#F2A541", "#3FA7D6", "#E4572E"}

const (
	background = "#FFFFFF"
	gridColor  = "#D0D0D0"
	labelColor = "#FFFFFF"
)

// Option configures a renderer.
type Option func(*options)

type options struct {
	scale    float64
	gap      float64
	showGrid bool
	palette  []string
}

// WithScale sets the raster scale factor for PNG output.
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

// WithGap insets every item by gap/2 on each side.
func WithGap(gap float64) Option { return func(o *options) { o.gap = max(gap, 0) } }

// WithGrid draws the cell grid behind the items.
func WithGrid() Option { return func(o *options) { o.showGrid = true } }

// WithPalette replaces DefaultPalette. An empty palette is ignored.
func WithPalette(p []string) Option {
	return func(o *options) {
		if len(p) > 0 {
			o.palette = p
		}
	}
}

func newOptions(opts []Option) options {
	o := options{scale: 1, palette: DefaultPalette}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// box is one drawable item.
type box struct {
	index int
	label string
	x, y  float64
	w, h  float64
	color string
}

// boxes lists the placed items of doc in input order, inset by the gap.
func boxes(doc bwio.LayoutDocument, o options) []box {
	out := make([]box, 0, len(doc.Result.Placements))
	for _, p := range doc.Result.Placements {
		if !p.Placed {
			continue
		}
		inset := min(o.gap/2, p.Width/2, p.Height/2)
		out = append(out, box{
			index: p.Index,
			label: label(p),
			x:     p.X + inset,
			y:     p.Y + inset,
			w:     p.Width - 2*inset,
			h:     p.Height - 2*inset,
			color: o.palette[p.Index%len(o.palette)],
		})
	}
	return out
}

func label(p masonry.Placement) string {
	if p.ID != "" {
		return p.ID
	}
	return "#" + strconv.Itoa(p.Index)
}

// canvasSize is the pixel size covered by placed items, at least 1x1.
func canvasSize(doc bwio.LayoutDocument) (float64, float64) {
	c := doc.Result.Container
	return max(c.Width, 1), max(c.Height, 1)
}
