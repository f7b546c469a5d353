package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	bwio "github.com/matzehuels/brickwall/pkg/io"
	"github.com/matzehuels/brickwall/pkg/masonry"
	"github.com/matzehuels/brickwall/pkg/observability"
)

// resizeCommand creates the resize command. It lays items out at one
// container size, then asks the session whether another size changes the
// column or row count, and re-packs only if it does.
func (c *CLI) resizeCommand() *cobra.Command {
	var (
		flags  layoutFlags
		from   string
		to     string
		output string
	)

	cmd := &cobra.Command{
		Use:   "resize [items-file]",
		Short: "Check whether a container resize changes the grid",
		Example: `  # Does widening from 1200 to 1600 add columns?
  brickwall resize photos.json --from 1200x800 --to 1600x800

  # Write the re-packed layout when it changes
  brickwall resize photos.json --from 1200x800 --to 1600x800 -o wide.layout.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := withLogger(cmd.Context(), c.Logger)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := pipelineOptions(cfg, c.Logger)
			if err := flags.apply(cmd, &opts); err != nil {
				return err
			}
			if from != "" {
				if opts.Container, err = parseSize(from); err != nil {
					return err
				}
			}
			target, err := parseSize(to)
			if err != nil {
				return err
			}

			items, err := importItems(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			session := masonry.NewSession(opts.Layout)
			before, err := runner.LayoutSession(ctx, session, items, opts)
			if err != nil {
				return err
			}
			seg := before.Result.Segments

			changed := session.ResizeChanged(target)
			observability.Pipeline().OnResizeCheck(ctx, args[0], changed)
			next := session.Segments()

			printKeyValue("from", formatSize(opts.Container)+"  "+segmentLabel(seg))
			printKeyValue("to", formatSize(target)+"  "+segmentLabel(next))

			if !changed {
				printInfo("Grid unchanged, no re-layout needed")
				return nil
			}

			opts.Container = target
			after, err := runner.LayoutSession(ctx, session, items, opts)
			if err != nil {
				return err
			}
			printSuccess("Grid changed, re-packed")
			printStats(len(items), after.Result.Unplaced, after.Result.GridCols, after.Result.GridRows, false)

			if output != "" {
				if err := bwerrors.ValidatePath(output); err != nil {
					return err
				}
				if err := bwio.ExportLayout(after, output); err != nil {
					return err
				}
				printFile(output)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&from, "from", "", "initial container size WIDTHxHEIGHT (default: --size or config)")
	cmd.Flags().StringVar(&to, "to", "", "new container size WIDTHxHEIGHT")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the re-packed layout here when the grid changes")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// segmentLabel formats a segment count pair, e.g. "4 cols x 3 rows".
func segmentLabel(s masonry.Segments) string {
	return StyleNumber.Render(strconv.Itoa(s.Cols)) + " cols x " +
		StyleNumber.Render(strconv.Itoa(s.Rows)) + fmt.Sprintf(" rows (cell %gx%g)", s.ColumnWidth, s.RowHeight)
}
