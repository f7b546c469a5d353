package pipeline

import (
	"bytes"
	"context"
	"fmt"

	bwio "github.com/matzehuels/brickwall/pkg/io"
	"github.com/matzehuels/brickwall/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, doc bwio.LayoutDocument, opts Options) (map[string][]byte, error) {
	ro := renderOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.SVG(doc, ro...)
		case FormatPNG:
			data, err = render.PNG(doc, append(ro, render.WithScale(opts.Scale))...)
		case FormatPDF:
			data, err = render.PDF(doc, ro...)
		case FormatJSON:
			var buf bytes.Buffer
			err = bwio.WriteLayout(doc, &buf)
			data = buf.Bytes()
		case FormatDOT:
			data = []byte(render.DOT(doc, ro...))
		case FormatGrid:
			data, err = render.OccupancySVG(ctx, doc, ro...)
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderOptions builds renderer options.
func renderOptions(opts Options) []render.Option {
	var ro []render.Option
	if opts.Gap > 0 {
		ro = append(ro, render.WithGap(opts.Gap))
	}
	if opts.ShowGrid {
		ro = append(ro, render.WithGrid())
	}
	if len(opts.Palette) > 0 {
		ro = append(ro, render.WithPalette(opts.Palette))
	}
	return ro
}
