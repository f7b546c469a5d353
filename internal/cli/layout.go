package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	bwio "github.com/matzehuels/brickwall/pkg/io"
	"github.com/matzehuels/brickwall/pkg/masonry"
	"github.com/matzehuels/brickwall/pkg/pipeline"
)

// layoutFlags are the packing flags shared by layout, render, resize and
// preview. Each overrides brickwall.toml only when set on the command line.
type layoutFlags struct {
	orientation string
	columnWidth float64
	rowHeight   float64
	liquid      bool
	cols        int
	rows        int
	scanLimit   int
	size        string
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.orientation, "orientation", "", "vertical or horizontal")
	fs.Float64Var(&f.columnWidth, "column-width", 0, "cell width in pixels (0 = first item's width)")
	fs.Float64Var(&f.rowHeight, "row-height", 0, "cell height in pixels (0 = first item's height)")
	fs.BoolVar(&f.liquid, "liquid", false, "scale cells to fill the container exactly")
	fs.IntVar(&f.cols, "cols", 0, "liquid: force the column count")
	fs.IntVar(&f.rows, "rows", 0, "liquid: force the row count")
	fs.IntVar(&f.scanLimit, "scan-limit", 0, "primary-axis search bound per item")
	fs.StringVar(&f.size, "size", "", "container size as WIDTHxHEIGHT (e.g. 1200x800)")
}

// apply copies the flags the user set onto opts.
func (f *layoutFlags) apply(cmd *cobra.Command, opts *pipeline.Options) error {
	fs := cmd.Flags()
	if fs.Changed("orientation") {
		o, err := masonry.ParseOrientation(f.orientation)
		if err != nil {
			return bwerrors.Wrap(bwerrors.ErrCodeInvalidOrientation, err, "invalid --orientation %q", f.orientation)
		}
		opts.Layout.Orientation = o
	}
	if fs.Changed("column-width") {
		opts.Layout.ColumnWidth = f.columnWidth
	}
	if fs.Changed("row-height") {
		opts.Layout.RowHeight = f.rowHeight
	}
	if fs.Changed("liquid") {
		opts.Layout.Liquid = f.liquid
	}
	if fs.Changed("cols") {
		opts.Layout.Cols = f.cols
	}
	if fs.Changed("rows") {
		opts.Layout.Rows = f.rows
	}
	if fs.Changed("scan-limit") {
		opts.Layout.ScanLimit = f.scanLimit
	}
	if fs.Changed("size") {
		size, err := parseSize(f.size)
		if err != nil {
			return err
		}
		opts.Container = size
	}
	return nil
}

// layoutCommand creates the layout command for packing an item file.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   layoutFlags
		output  string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [items-file]",
		Short: "Pack items into a grid and write the layout as JSON",
		Long: `Pack items into a grid and write the layout as JSON.

The items file is a JSON, YAML or TOML list of {id, width, height}. Items are
placed in file order; each takes the first free block of cells, scanning the
grid the way the orientation fills it.`,
		Example: `  # Pack with settings from brickwall.toml
  brickwall layout photos.json

  # Liquid layout into a 1600x900 container
  brickwall layout photos.yaml --liquid --size 1600x900 -o wall.layout.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := pipelineOptions(cfg, c.Logger)
			opts.Refresh = refresh
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}

			items, err := importItems(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(loggerFromContext(ctx))
			doc, hit, err := runner.LayoutWithCacheInfo(ctx, items, opts)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Packed %d items", len(items)))

			if output == "" {
				output = layoutPath(args[0])
			}
			if err := bwio.ExportLayout(doc, output); err != nil {
				return err
			}

			printSuccess("Layout written")
			printStats(len(items), doc.Result.Unplaced, doc.Result.GridCols, doc.Result.GridRows, hit)
			printFile(output)
			printNewline()
			printNextStep("Render it", "brickwall render "+output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if cached")

	return cmd
}

// importItems validates the path and reads an item list.
func importItems(path string) ([]masonry.Item, error) {
	if err := bwerrors.ValidatePath(path); err != nil {
		return nil, err
	}
	return bwio.ImportItems(path)
}

// layoutPath derives "<base>.layout.json" from an item file path.
func layoutPath(input string) string {
	return basePath(input) + ".layout.json"
}

// basePath strips ".layout.json" or, failing that, the file extension.
func basePath(input string) string {
	if strings.HasSuffix(input, ".layout.json") {
		return strings.TrimSuffix(input, ".layout.json")
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// isLayoutFile reports whether path names a saved layout rather than items.
func isLayoutFile(path string) bool {
	return strings.HasSuffix(path, ".layout.json")
}
