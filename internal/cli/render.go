package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/citation/pkg/citation"
	"github.com/matzehuels/citation/pkg/citation/sink"
	"github.com/matzehuels/citation/pkg/errors"
	"github.com/matzehuels/citation/pkg/pipeline"
	"github.com/matzehuels/citation/pkg/render/canvas"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	card cardFlags

	output   string        // output file path, "-" for stdout
	format   string        // png, gif, pdf or json; derived from output when empty
	gif      bool          // shorthand for --format gif
	delay    time.Duration // GIF frame delay
	compact  bool          // merge repeated GIF frames
	opaque   bool          // no transparent GIF background
	loop     int           // GIF loop count, 0 forever, -1 once
	offsets  string        // comma-separated offset override
	timeline bool          // include the timeline in JSON output
	noCache  bool
	refresh  bool
	watch    bool // re-render when the card file or local assets change
	trace    bool // log every drawing call at debug level

	saveConfig string // card file receiving the rendered configuration
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{delay: sink.DefaultFrameDelay}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a citation card to PNG, GIF, PDF or JSON",
		Example: `  citation render -o citation.png --title "M.O.A. CITATION" --reason "Missing entry ticket"
  citation render -o citation.gif --config card.toml --resize
  citation render -o - --format json --timeline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(opts.output, opts.format, opts.gif)
			if err != nil {
				return err
			}
			opts.format = format
			return c.runRender(cmd, &opts)
		},
	}

	opts.card.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (- for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: png, gif, pdf, json (default: from output extension)")
	cmd.Flags().BoolVar(&opts.gif, "gif", false, "render the animated reveal (same as --format gif)")
	cmd.Flags().DurationVar(&opts.delay, "delay", opts.delay, "GIF frame delay")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "merge repeated GIF frames into longer ones")
	cmd.Flags().BoolVar(&opts.opaque, "opaque", false, "GIF without a transparent background")
	cmd.Flags().IntVar(&opts.loop, "loop", 0, "GIF loop count (0 forever, -1 play once)")
	cmd.Flags().StringVar(&opts.offsets, "offsets", "", "comma-separated visible heights, one per GIF frame")
	cmd.Flags().BoolVar(&opts.timeline, "timeline", false, "include per-frame offsets in JSON output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "re-render when the card file or local assets change")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "log every drawing call (with --verbose)")
	cmd.Flags().StringVar(&opts.saveConfig, "save-config", "", "write the rendered card, after resizing, to this card file")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// outputFormat resolves the format from the flags and the output extension.
func outputFormat(output, format string, gif bool) (string, error) {
	switch {
	case gif && format != "" && format != pipeline.FormatGIF:
		return "", errors.New(errors.ErrCodeInvalidInput, "--gif conflicts with --format %s", format)
	case gif:
		return pipeline.FormatGIF, nil
	case format != "":
		return format, pipeline.ValidateFormat(format)
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), "."); pipeline.ValidFormats[ext] {
		return ext, nil
	}
	return pipeline.DefaultFormat, nil
}

// parseOffsets parses "0,2,4" into offsets.
func parseOffsets(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid offset %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *CLI) runRender(cmd *cobra.Command, opts *renderOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if err := c.renderOnce(ctx, cmd, runner, opts); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}
	return c.watchAndRender(ctx, cmd, runner, opts)
}

// renderOnce renders the card described by the current flags and card file.
func (c *CLI) renderOnce(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, assets, err := opts.card.build(cmd)
	if err != nil {
		return err
	}
	offsets, err := parseOffsets(opts.offsets)
	if err != nil {
		return err
	}

	popts := pipeline.Options{
		Config:          cfg,
		Format:          opts.format,
		FontPath:        assets.Font,
		LogoPath:        assets.Logo,
		KeepLogoColor:   assets.KeepLogoColor,
		Offsets:         offsets,
		FrameDelay:      opts.delay,
		Compact:         opts.compact,
		Opaque:          opts.opaque,
		LoopCount:       opts.loop,
		IncludeTimeline: opts.timeline,
		Refresh:         opts.refresh,
		Logger:          logger,
	}
	if opts.trace {
		popts.Trace = func(op canvas.Op) { logger.Debug("draw", "op", op.String()) }
	}

	interactive := opts.output != "-" && isTerminal(os.Stderr) && logger.GetLevel() > LogDebug

	var result *pipeline.Result
	switch {
	case interactive && opts.format == pipeline.FormatGIF:
		err = runWithProgress(ctx, "Encoding "+filepath.Base(opts.output), func(report func(done, total int)) error {
			popts.Progress = report
			var err error
			result, err = runner.Execute(ctx, popts)
			return err
		})
	case interactive:
		spinner := newSpinner(ctx, os.Stderr, filepath.Base(opts.output))
		detach := spinner.attach()
		spinner.Start()
		result, err = runner.Execute(ctx, popts)
		spinner.Stop()
		detach()
	default:
		result, err = runner.Execute(ctx, popts)
	}
	if err != nil {
		return err
	}

	if err := writeOutput(cmd, opts.output, result.Data); err != nil {
		return err
	}
	if opts.saveConfig != "" {
		doc := citation.Document{Card: result.Config, Assets: assets}
		if err := citation.WriteFile(opts.saveConfig, doc); err != nil {
			return fmt.Errorf("save card file: %w", err)
		}
		logger.Debug("saved card file", "path", opts.saveConfig)
	}
	if opts.output != "-" {
		prog.done(fmt.Sprintf("Rendered %s", opts.output))
		printResult(result, opts.output)
	}
	return nil
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
