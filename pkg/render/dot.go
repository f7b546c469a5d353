package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	bwio "github.com/matzehuels/brickwall/pkg/io"
)

type gridPos struct{ col, row int }

// occupancy rebuilds the grid owners from the placements of doc.
func occupancy(doc bwio.LayoutDocument) map[gridPos]int {
	owners := make(map[gridPos]int)
	for _, p := range doc.Result.Placements {
		if !p.Placed {
			continue
		}
		for dc := range p.Span.Cols {
			for dr := range p.Span.Rows {
				owners[gridPos{p.Col + dc, p.Row + dr}] = p.Index
			}
		}
	}
	return owners
}

// DOT describes the occupancy grid as a Graphviz HTML-like table. Each item
// is one cell spanning its columns and rows; free cells are left blank.
func DOT(doc bwio.LayoutDocument, opts ...Option) string {
	o := newOptions(opts)
	res := doc.Result
	owners := occupancy(doc)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=plaintext, fontname=\"sans-serif\", fontsize=10];\n")
	buf.WriteString("  grid [label=<\n")
	buf.WriteString("    <TABLE BORDER=\"0\" CELLBORDER=\"1\" CELLSPACING=\"0\" CELLPADDING=\"4\">\n")

	if res.GridCols == 0 || res.GridRows == 0 {
		buf.WriteString("      <TR><TD WIDTH=\"20\" HEIGHT=\"20\"></TD></TR>\n")
	}
	for row := range res.GridRows {
		buf.WriteString("      <TR>")
		for col := range res.GridCols {
			idx, taken := owners[gridPos{col, row}]
			if !taken {
				buf.WriteString(`<TD WIDTH="20" HEIGHT="20"></TD>`)
				continue
			}
			p := res.Placements[idx]
			if p.Col != col || p.Row != row {
				continue
			}
			cols := min(p.Span.Cols, res.GridCols-col)
			rows := min(p.Span.Rows, res.GridRows-row)
			fmt.Fprintf(&buf, `<TD COLSPAN="%d" ROWSPAN="%d" BGCOLOR="%s"><FONT COLOR="%s">%s</FONT></TD>`,
				cols, rows, o.palette[p.Index%len(o.palette)], labelColor, html.EscapeString(label(p)))
		}
		buf.WriteString("</TR>\n")
	}

	buf.WriteString("    </TABLE>\n")
	buf.WriteString("  >];\n")
	buf.WriteString("}\n")
	return buf.String()
}

// OccupancySVG renders DOT output to SVG with Graphviz.
func OccupancySVG(ctx context.Context, doc bwio.LayoutDocument, opts ...Option) ([]byte, error) {
	return RenderDOT(ctx, DOT(doc, opts...))
}

// RenderDOT renders a DOT graph to SVG using Graphviz.
func RenderDOT(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element with a
// pixel-sized one anchored at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
