// Package render draws computed layouts.
//
// # Overview
//
// Every renderer takes an [io.LayoutDocument] and produces bytes:
//
//   - [SVG]: one rect per placed item, with the grid's row and column counts
//     exposed as data-rows and data-cols attributes on the root element
//   - [PNG]: the same picture rasterized in-process with fogleman/gg
//   - [PDF]: the SVG converted with rsvg-convert (librsvg)
//   - [DOT] and [OccupancySVG]: the occupancy grid as a Graphviz HTML table,
//     one cell per grid cell and COLSPAN/ROWSPAN per item
//
// Items at the unplaceable position are not drawn.
//
// # Options
//
// Renderers accept functional options:
//
//	svg := render.SVG(doc, render.WithGap(4), render.WithGrid())
//	png, err := render.PNG(doc, render.WithScale(2))
//
// # Dependencies
//
// [PDF] shells out to rsvg-convert. Install librsvg with
// `brew install librsvg` (macOS) or `apt install librsvg2-bin` (Linux).
package render
