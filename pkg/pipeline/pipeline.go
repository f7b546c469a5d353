// Package pipeline provides the layout → render pipeline shared by the CLI
// and the HTTP API.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Layout: pack an item list into a grid (see [masonry.Session])
//  2. Render: turn the resulting [io.LayoutDocument] into output artifacts
//     (SVG, PNG, PDF, JSON, DOT, Graphviz occupancy grid)
//
// Each stage can run independently or as part of [Runner.Execute]. The Runner
// caches both stages through a [cache.Cache].
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Layout:    masonry.Config{ColumnWidth: 120, RowHeight: 80},
//	    Container: masonry.Size{Width: 1200, Height: 800},
//	    Formats:   []string{"svg", "json"},
//	}
//	result, err := runner.Execute(ctx, items, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Sessions that outlive a single pass (the API server, the terminal preview)
// use [Runner.LayoutSession], which never touches the cache: a liquid
// session's span cache is state the cache key cannot see.
package pipeline

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/brickwall/pkg/cache"
	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	bwio "github.com/matzehuels/brickwall/pkg/io"
	"github.com/matzehuels/brickwall/pkg/masonry"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default container width in pixels.
	DefaultWidth = 1200.0

	// DefaultHeight is the default container height in pixels.
	DefaultHeight = 800.0

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 1.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatGrid = "grid" // Graphviz rendering of the occupancy grid, as SVG
)

// Formats lists the supported output formats in display order.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT, FormatGrid}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatGrid: true,
}

// Extension returns the file extension written for a format.
func Extension(format string) string {
	if format == FormatGrid {
		return "grid.svg"
	}
	return format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Layout    masonry.Config `json:"layout"`
	Container masonry.Size   `json:"container"`
	Refresh   bool           `json:"refresh,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Gap      float64  `json:"gap,omitempty"`
	ShowGrid bool     `json:"show_grid,omitempty"`
	Palette  []string `json:"palette,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed layout together with its inputs.
	Layout bwio.LayoutDocument

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount  int
	Unplaced   int
	GridCols   int
	GridRows   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return bwerrors.New(bwerrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Container.Width == 0 {
		o.Container.Width = DefaultWidth
	}
	if o.Container.Height == 0 {
		o.Container.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()

	if err := bwerrors.ValidateDimension("container width", o.Container.Width); err != nil {
		return err
	}
	if err := bwerrors.ValidateDimension("container height", o.Container.Height); err != nil {
		return err
	}
	if err := bwerrors.ValidateDimension("column width", o.Layout.ColumnWidth); err != nil {
		return err
	}
	if err := bwerrors.ValidateDimension("row height", o.Layout.RowHeight); err != nil {
		return err
	}
	switch o.Layout.Orientation {
	case masonry.Vertical, masonry.Horizontal:
	default:
		return bwerrors.New(bwerrors.ErrCodeInvalidOrientation, "invalid orientation: %d", int(o.Layout.Orientation))
	}
	if o.Layout.Cols < 0 || o.Layout.Rows < 0 || o.Layout.ScanLimit < 0 {
		return bwerrors.New(bwerrors.ErrCodeInvalidConfig, "cols, rows and scan_limit must be >= 0")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return bwerrors.New(bwerrors.ErrCodeInvalidInput, "scale must be a positive number, got %v", o.Scale)
	}
	if err := bwerrors.ValidateDimension("gap", o.Gap); err != nil {
		return err
	}
	return nil
}

// ValidateAndSetDefaults checks the options for the full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Config:    o.Layout,
		Container: o.Container,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:   format,
		Gap:      o.Gap,
		ShowGrid: o.ShowGrid,
		Palette:  o.Palette,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
