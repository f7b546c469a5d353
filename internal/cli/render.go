package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	bwio "github.com/matzehuels/brickwall/pkg/io"
	"github.com/matzehuels/brickwall/pkg/pipeline"
)

// renderCommand creates the render command. It accepts either an item file,
// which is packed first, or a layout written by "brickwall layout".
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags    layoutFlags
		formats  string
		output   string
		scale    float64
		gap      float64
		showGrid bool
		noCache  bool
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:   "render [items-file | layout.json]",
		Short: "Render a layout to SVG, PNG, PDF, JSON, DOT or a grid diagram",
		Long: fmt.Sprintf(`Render a layout to image and diagram formats.

Formats: %s. PDF output needs rsvg-convert on PATH. The grid format is an
occupancy diagram drawn by Graphviz: one table cell per grid cell.`, strings.Join(pipeline.Formats, ", ")),
		Example: `  # Pack and render in one step
  brickwall render photos.json -f svg,png

  # Render a saved layout with grid lines
  brickwall render wall.layout.json -f svg,grid --grid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)
			input := args[0]

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := pipelineOptions(cfg, c.Logger)
			opts.Refresh = refresh
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}

			fs := cmd.Flags()
			if fs.Changed("format") {
				opts.Formats = parseFormats(formats)
			}
			if fs.Changed("scale") {
				opts.Scale = scale
			}
			if fs.Changed("gap") {
				opts.Gap = gap
			}
			if fs.Changed("grid") {
				opts.ShowGrid = showGrid
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := bwerrors.ValidatePath(input); err != nil {
				return err
			}

			var (
				doc       bwio.LayoutDocument
				layoutHit bool
			)
			if isLayoutFile(input) {
				doc, err = bwio.ImportLayout(input)
			} else {
				items, ierr := importItems(input)
				if ierr != nil {
					return ierr
				}
				doc, layoutHit, err = runner.LayoutWithCacheInfo(ctx, items, opts)
			}
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(ctx, "Rendering "+strings.Join(opts.Formats, ", ")+"...")
			spinner.Start()
			artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, doc, opts)
			spinner.Stop()
			if err != nil {
				return err
			}

			base := output
			if base == "" {
				base = basePath(input)
			}
			paths, err := writeArtifacts(base, artifacts)
			if err != nil {
				return err
			}

			printSuccess("Rendered %d artifact(s)", len(paths))
			printStats(len(doc.Items), doc.Result.Unplaced, doc.Result.GridCols, doc.Result.GridRows, layoutHit && renderHit)
			for _, p := range paths {
				printFile(p)
			}
			if doc.Result.Unplaced > 0 {
				printWarning("%d item(s) did not fit within the scan limit", doc.Result.Unplaced)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "output formats, comma-separated")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultScale, "raster scale factor for png")
	cmd.Flags().Float64Var(&gap, "gap", 0, "inset in pixels between drawn items")
	cmd.Flags().BoolVar(&showGrid, "grid", false, "draw cell grid lines")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the pipeline cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")

	return cmd
}

// writeArtifacts writes each artifact to <base>.<ext>, in pipeline.Formats order.
func writeArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	var paths []string
	for _, format := range pipeline.Formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + pipeline.Extension(format)
		if err := os.WriteFile(path, data, 0644); err != nil {
			return paths, bwerrors.Wrap(bwerrors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
