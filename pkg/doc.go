// Package pkg provides the libraries behind brickwall, a deterministic
// first-fit grid packer.
//
// # Overview
//
// Brickwall places rectangular items into a grid of equal cells. Each item
// takes the first free block of cells large enough for it, scanning the grid in
// the order the orientation fills it, so later small items drop into holes
// left by earlier large ones. The same inputs always give the same layout.
//
// The typical data flow:
//
//	Item file (JSON / YAML / TOML)
//	         ↓
//	    [io] package (decode + validate items)
//	         ↓
//	    [masonry] package (segments, spans, first-fit placement)
//	         ↓
//	    [pipeline] package (cache, hooks, format dispatch)
//	         ↓
//	    [render] package (SVG, PNG, PDF, DOT, occupancy diagram)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/brickwall/pkg/masonry"
//	    "github.com/matzehuels/brickwall/pkg/render"
//	    bwio "github.com/matzehuels/brickwall/pkg/io"
//	)
//
//	items := []masonry.Item{
//	    {ID: "hero", Width: 200, Height: 200},
//	    {ID: "a", Width: 100, Height: 100},
//	    {ID: "b", Width: 100, Height: 100},
//	}
//	cfg := masonry.Config{Orientation: masonry.Vertical}
//	container := masonry.Size{Width: 400, Height: 300}
//
//	s := masonry.NewSession(cfg)
//	res := s.Layout(container, items)
//	svg := render.SVG(bwio.NewLayoutDocument(s.Config(), container, items, res))
//
// # Main Packages
//
// [masonry] - The packing engine. A Session owns one grid: its configuration,
// the resolved cell size, and the span cache used by liquid layouts.
// Session.ResizeChanged tells a caller whether a new container size moves the
// column or row count, and so whether a re-layout is needed at all.
//
// [io] - Item file decoding (JSON, YAML, TOML) and the LayoutDocument
// format that carries a layout together with its inputs.
//
// [render] - Output formats: hand-written SVG, PNG via gg, PDF via
// rsvg-convert, and a Graphviz occupancy diagram.
//
// [pipeline] - Validation, caching and format dispatch shared by the CLI and
// the HTTP server.
//
// [cache] - File, Redis and null caches for layouts and artifacts.
//
// [store] - Layout persistence for the HTTP server: in memory or MongoDB.
//
// [server] - The HTTP session API.
//
// [config] - brickwall.toml loading and validation.
//
// [observability] - Hooks for layout, render, cache and HTTP events.
//
// [errors] - Coded errors shared by every outer surface.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/masonry/...            # Specific package
//	go test -run Example                 # Examples only
//
// Redis and MongoDB tests are skipped unless BRICKWALL_TEST_REDIS_ADDR or
// BRICKWALL_TEST_MONGO_URI is set.
//
// [masonry]: https://pkg.go.dev/github.com/matzehuels/brickwall/pkg/masonry
// [io]: https://pkg.go.dev/github.com/matzehuels/brickwall/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/brickwall/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/brickwall/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/brickwall/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/brickwall/pkg/store
// [server]: https://pkg.go.dev/github.com/matzehuels/brickwall/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/brickwall/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/brickwall/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/brickwall/pkg/errors
package pkg
