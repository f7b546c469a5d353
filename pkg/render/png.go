package render

import (
	"bytes"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	bwio "github.com/matzehuels/brickwall/pkg/io"
)

// PNG rasterizes the layout. WithScale multiplies the output resolution.
func PNG(doc bwio.LayoutDocument, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	w, h := canvasSize(doc)

	dc := gg.NewContext(int(math.Ceil(w*o.scale)), int(math.Ceil(h*o.scale)))
	dc.Scale(o.scale, o.scale)
	dc.SetHexColor(background)
	dc.Clear()

	if o.showGrid {
		seg := doc.Result.Segments
		dc.SetHexColor(gridColor)
		dc.SetLineWidth(1 / o.scale)
		for x := seg.ColumnWidth; x < w; x += seg.ColumnWidth {
			dc.DrawLine(x, 0, x, h)
		}
		for y := seg.RowHeight; y < h; y += seg.RowHeight {
			dc.DrawLine(0, y, w, y)
		}
		dc.Stroke()
	}

	for _, b := range boxes(doc, o) {
		dc.SetHexColor(b.color)
		dc.DrawRectangle(b.x, b.y, b.w, b.h)
		dc.Fill()

		dc.SetHexColor(labelColor)
		dc.DrawStringAnchored(b.label, b.x+b.w/2, b.y+b.h/2, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}
