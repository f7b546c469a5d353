package render

import (
	"bytes"
	"fmt"
	"html"

	bwio "github.com/matzehuels/brickwall/pkg/io"
)

// SVG renders the layout as a standalone SVG document.
func SVG(doc bwio.LayoutDocument, opts ...Option) []byte {
	o := newOptions(opts)
	w, h := canvasSize(doc)
	res := doc.Result

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-orientation="%s" data-rows="%d" data-cols="%d">`+"\n",
		w, h, w, h, doc.Config.Orientation, res.GridRows, res.GridCols)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", background)

	if o.showGrid {
		renderGridLines(&buf, doc, w, h)
	}

	for _, b := range boxes(doc, o) {
		fmt.Fprintf(&buf, `  <g id="item-%d">`+"\n", b.index)
		fmt.Fprintf(&buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
			b.x, b.y, b.w, b.h, b.color)
		fmt.Fprintf(&buf, `    <text x="%.1f" y="%.1f" fill="%s" font-family="sans-serif" font-size="12" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
			b.x+b.w/2, b.y+b.h/2, labelColor, html.EscapeString(b.label))
		buf.WriteString("  </g>\n")
	}

	if res.Unplaced > 0 {
		fmt.Fprintf(&buf, "  <desc>%d unplaced items</desc>\n", res.Unplaced)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderGridLines(buf *bytes.Buffer, doc bwio.LayoutDocument, w, h float64) {
	seg := doc.Result.Segments
	fmt.Fprintf(buf, `  <g stroke="%s" stroke-width="1">`+"\n", gridColor)
	for x := seg.ColumnWidth; x < w; x += seg.ColumnWidth {
		fmt.Fprintf(buf, `    <line x1="%.1f" y1="0" x2="%.1f" y2="%.1f"/>`+"\n", x, x, h)
	}
	for y := seg.RowHeight; y < h; y += seg.RowHeight {
		fmt.Fprintf(buf, `    <line x1="0" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", y, w, y)
	}
	buf.WriteString("  </g>\n")
}
