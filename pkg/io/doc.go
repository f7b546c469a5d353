// Package io reads item lists and reads and writes computed layouts.
//
// # Item Files
//
// An item file lists the rectangles to pack, in placement order. Each item
// has a width and height in pixels (margins included) and an optional id:
//
//	{
//	  "items": [
//	    {"id": "hero", "width": 400, "height": 200},
//	    {"id": "a", "width": 200, "height": 200},
//	    {"width": 200, "height": 100}
//	  ]
//	}
//
// JSON and YAML files may also be a bare top-level list. TOML files use an
// array of tables:
//
//	[[items]]
//	id = "hero"
//	width = 400
//	height = 200
//
// Use [ImportItems] to read a file (the format follows the extension) or
// [ReadItems] to read from any io.Reader. Items are validated: sizes must be
// finite and non-negative, and ids must be unique so that liquid layouts can
// cache spans by id.
//
// # Layout Documents
//
// A [LayoutDocument] bundles everything needed to re-render a layout without
// recomputing it: the configuration, the viewport the layout was computed
// for, the input items and the [masonry.Result]. [WriteLayout] and
// [ReadLayout] round-trip it as indented JSON; the render and cache layers
// use [MarshalLayout] and [UnmarshalLayout].
package io
