package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	bwio "github.com/matzehuels/brickwall/pkg/io"
	"github.com/matzehuels/brickwall/pkg/masonry"
	"github.com/matzehuels/brickwall/pkg/observability"
	"github.com/matzehuels/brickwall/pkg/pipeline"
)

// Preview geometry: how many container pixels one terminal character stands
// for, and the lines reserved for the header and status table.
const (
	defaultPxPerCol = 10
	defaultPxPerRow = 20
	previewChrome   = 8
)

var (
	previewFreeStyle = lipgloss.NewStyle().Foreground(colorDim)
	previewHelpStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PreviewModel - Live re-packing on terminal resize
// =============================================================================

// PreviewModel is the bubbletea model behind "brickwall preview". The
// terminal window is the container: every WindowSizeMsg is checked with
// Session.ResizeChanged and the items are re-packed only when the column or
// row count moves.
type PreviewModel struct {
	ctx     context.Context
	runner  *pipeline.Runner
	session *masonry.Session
	items   []masonry.Item
	opts    pipeline.Options
	palette []lipgloss.Color

	pxPerCol float64
	pxPerRow float64

	Doc      bwio.LayoutDocument
	Checks   int // resize events seen
	Relayout int // passes actually run
	Err      error
	width    int
	height   int
}

// NewPreviewModel creates a preview over items. No layout runs until the
// first window size arrives.
func NewPreviewModel(ctx context.Context, runner *pipeline.Runner, items []masonry.Item, opts pipeline.Options) PreviewModel {
	palette := make([]lipgloss.Color, 0, len(opts.Palette))
	for _, c := range opts.Palette {
		palette = append(palette, lipgloss.Color(c))
	}
	if len(palette) == 0 {
		palette = []lipgloss.Color{colorCyan}
	}
	return PreviewModel{
		ctx:      ctx,
		runner:   runner,
		session:  masonry.NewSession(opts.Layout),
		items:    items,
		opts:     opts,
		palette:  palette,
		pxPerCol: defaultPxPerCol,
		pxPerRow: defaultPxPerRow,
	}
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "o":
			cfg := m.session.Config()
			if cfg.Orientation == masonry.Vertical {
				cfg.Orientation = masonry.Horizontal
			} else {
				cfg.Orientation = masonry.Vertical
			}
			m.session.SetConfig(cfg)
			m.session.ForgetSpans()
			m.relayout()
		case "r":
			m.session.ForgetSpans()
			m.relayout()
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.Checks++
		container := m.container()
		changed := m.session.ResizeChanged(container)
		observability.Pipeline().OnResizeCheck(m.ctx, "preview", changed)
		if changed {
			m.relayout()
		}
	}
	return m, nil
}

// container maps the terminal size to pixels.
func (m PreviewModel) container() masonry.Size {
	rows := max(m.height-previewChrome, 1)
	return masonry.Size{
		Width:  float64(m.width) * m.pxPerCol,
		Height: float64(rows) * m.pxPerRow,
	}
}

func (m *PreviewModel) relayout() {
	opts := m.opts
	opts.Container = m.container()
	doc, err := m.runner.LayoutSession(m.ctx, m.session, m.items, opts)
	if err != nil {
		m.Err = err
		return
	}
	m.Doc, m.Err = doc, nil
	m.Relayout++
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("brickwall preview"))
	b.WriteString("\n")
	b.WriteString(previewHelpStyle.Render("resize the window to re-pack  o orientation  r re-measure  q quit"))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error() + "\n")
		return b.String()
	}
	if m.Relayout == 0 {
		b.WriteString(StyleDim.Render("waiting for window size..."))
		return b.String()
	}

	b.WriteString(m.gridView())
	b.WriteString("\n")
	b.WriteString(m.statusTable())
	return b.String()
}

// gridView draws the visible part of the occupancy grid, one cell per two
// characters, colored by owning item.
func (m PreviewModel) gridView() string {
	seg := m.Doc.Result.Segments
	cols := min(max(m.Doc.Result.GridCols, seg.Cols), max(m.width/2, 1))
	rows := min(max(m.Doc.Result.GridRows, seg.Rows), max(m.height-previewChrome, 1))

	// Only the visible window is expanded into cells.
	owners := make(map[[2]int]int)
	for _, bl := range m.session.Grid().Blocks(m.session.Config().Orientation) {
		for r := bl.Row; r < min(bl.Row+bl.Span.Rows, rows); r++ {
			for c := bl.Col; c < min(bl.Col+bl.Span.Cols, cols); c++ {
				owners[[2]int{c, r}] = bl.Owner
			}
		}
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			owner, ok := owners[[2]int{c, r}]
			if !ok {
				b.WriteString(previewFreeStyle.Render("· "))
				continue
			}
			color := m.palette[owner%len(m.palette)]
			b.WriteString(lipgloss.NewStyle().Foreground(color).Render("██"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m PreviewModel) statusTable() string {
	res := m.Doc.Result
	seg := res.Segments
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Container", "Segments", "Grid", "Items", "Unplaced", "Passes").
		Row(
			formatSize(m.Doc.Viewport),
			fmt.Sprintf("%dx%d", seg.Cols, seg.Rows),
			fmt.Sprintf("%dx%d", res.GridCols, res.GridRows),
			strconv.Itoa(len(m.items)),
			strconv.Itoa(res.Unplaced),
			fmt.Sprintf("%d/%d", m.Relayout, m.Checks),
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 4 && res.Unplaced > 0 {
				return StyleWarning
			}
			return StyleValue
		})
	return t.Render()
}

// previewCommand creates the preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		flags    layoutFlags
		pxPerCol float64
		pxPerRow float64
	)

	cmd := &cobra.Command{
		Use:   "preview [items-file]",
		Short: "Live terminal preview that re-packs when the window resizes",
		Long: `Open a terminal preview of the packed grid. The window is the container:
each character is --px-per-col pixels wide and each line --px-per-row pixels
tall. Cells are drawn two characters wide. Resizing the window re-packs the items
only when the column or row count changes.`,
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

			items, err := importItems(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, true)
			if err != nil {
				return err
			}
			defer runner.Close()

			m := NewPreviewModel(ctx, runner, items, opts)
			if pxPerCol > 0 {
				m.pxPerCol = pxPerCol
			}
			if pxPerRow > 0 {
				m.pxPerRow = pxPerRow
			}

			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if pm, ok := final.(PreviewModel); ok {
				printInfo("%d resize events, %d layout passes", pm.Checks, pm.Relayout)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Float64Var(&pxPerCol, "px-per-col", defaultPxPerCol, "container pixels per terminal character")
	cmd.Flags().Float64Var(&pxPerRow, "px-per-row", defaultPxPerRow, "container pixels per terminal line")

	return cmd
}
