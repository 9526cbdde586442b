package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/citation/pkg/cache"
	"github.com/matzehuels/citation/pkg/pipeline"
)

type geometryOpts struct {
	card     cardFlags
	json     bool
	timeline bool
}

// geometryCommand creates the geometry command, which prints the layout of a
// card without drawing it.
func (c *CLI) geometryCommand() *cobra.Command {
	var opts geometryOpts

	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Print the computed layout of a card",
		Example: `  citation geometry --width 500 --height 200
  citation geometry --config card.toml --resize --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGeometry(cmd, &opts)
		},
	}

	opts.card.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the layout as JSON")
	cmd.Flags().BoolVar(&opts.timeline, "timeline", false, "include per-frame offsets (with --json)")

	return cmd
}

func (c *CLI) runGeometry(cmd *cobra.Command, opts *geometryOpts) error {
	ctx := cmd.Context()
	cfg, assets, err := opts.card.build(cmd)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(cache.NewNullCache(), nil, loggerFromContext(ctx))
	result, err := runner.Execute(ctx, pipeline.Options{
		Config:          cfg,
		Format:          pipeline.FormatJSON,
		FontPath:        assets.Font,
		IncludeTimeline: opts.timeline,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		_, err := fmt.Fprintln(out, string(result.Data))
		return err
	}
	printGeometry(out, result)
	return nil
}

// printGeometry writes the card size and every profile offset as a table.
func printGeometry(w io.Writer, res *pipeline.Result) {
	p := res.Profile
	rows := [][]string{
		{"width", itoa(res.Config.Width)},
		{"height", itoa(res.Config.Height)},
		{"side dots left", itoa(p.SideDotsFromLeft)},
		{"side dots top", itoa(p.SideDotsFromTop)},
		{"side dots right", itoa(p.SideDotsFromRight)},
		{"separator left", itoa(p.SeparatorFromLeft)},
		{"separator right", itoa(p.SeparatorFromRight)},
		{"top separator", itoa(p.TopSeparatorFromTop)},
		{"bottom separator", itoa(p.BottomSeparatorFromBottom)},
		{"barcode right", itoa(p.BarcodeFromRight)},
		{"barcode top", itoa(p.BarcodeFromTop)},
		{"text left", itoa(p.TextFromLeft)},
		{"title top", itoa(p.TitleFromTop)},
		{"title width", itoa(p.TitleMaxWidth)},
		{"reason top", itoa(p.ReasonFromTop)},
		{"reason width", itoa(p.ReasonMaxWidth)},
		{"reason height", itoa(p.ReasonMaxHeight)},
		{"penalty bottom", itoa(p.PenaltyFromBottom)},
		{"frames", itoa(res.Frames)},
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("FIELD", "PIXELS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return StyleTitle.Padding(0, 1)
			case col == 1:
				return StyleNumber.Padding(0, 1).Align(lipgloss.Right)
			default:
				return StyleValue.Padding(0, 1)
			}
		})

	fmt.Fprintln(w, t.Render())
	for _, n := range res.Notices {
		fmt.Fprintln(w, StyleWarning.Render(n.String()))
	}
	if res.Resize != nil && res.Resize.Iterations > 0 {
		fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("resized in %d steps", res.Resize.Iterations)))
	}
}

func itoa(v int) string { return strconv.Itoa(v) }
