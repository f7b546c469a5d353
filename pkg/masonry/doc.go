// Package masonry packs rectangular items into a growing grid with a
// deterministic first-fit strategy.
//
// # Overview
//
// Plain masonry layouts append every item to the shortest column. This package
// instead scans the grid from its origin for every item, so small items
// backfill the holes left beside and below larger multi-cell items. The result
// approaches a perfect brick wall without reordering the input.
//
// The package is a pure computational core. It never measures anything, never
// touches a display and never returns an error: every call produces a complete,
// renderable layout, possibly a degenerate one.
//
// # Components
//
//   - [ComputeSegments]: column/row counts and cell sizes from the container size
//   - [Grid]: sparse occupancy keyed by (primary, secondary) cell coordinates
//   - [Extent]: the container size reached by placed items
//   - [Session]: one grid instance; runs layout passes and resize checks
//
// # Orientation
//
// A [Vertical] layout fills rows top to bottom and each row left to right. A
// [Horizontal] layout is its transpose. The placement scan is written once in
// primary/secondary coordinates; the [Orientation] maps cells back to
// columns and rows only when a result is emitted.
//
// # Usage
//
//	s := masonry.NewSession(masonry.Config{ColumnWidth: 100, RowHeight: 100})
//	res := s.Layout(masonry.Size{Width: 300, Height: 1000}, items)
//	for _, p := range res.Placements {
//	    fmt.Println(p.ID, p.X, p.Y)
//	}
//
// On a viewport resize the host asks the session whether the grid changed and
// re-runs the full layout only when it did:
//
//	if s.ResizeChanged(newSize) {
//	    res = s.Layout(newSize, items)
//	}
//
// # Concurrency
//
// A Session is not safe for concurrent use. Callers must serialize layout
// passes and resize checks per session; independent sessions share nothing.
package masonry
