package pipeline

import (
	"context"
	"fmt"
	"image/png"

	"github.com/matzehuels/citation/pkg/buildinfo"
	"github.com/matzehuels/citation/pkg/citation"
	"github.com/matzehuels/citation/pkg/citation/animate"
	"github.com/matzehuels/citation/pkg/citation/card"
	"github.com/matzehuels/citation/pkg/citation/sink"
	"github.com/matzehuels/citation/pkg/errors"
	"github.com/matzehuels/citation/pkg/observability"
)

// renderCard draws cfg with the prepared assets.
func (r *Runner) renderCard(p *prepared, opts Options) (*card.Card, error) {
	cardOpts := []card.Option{card.WithLogo(p.logo)}
	if opts.Trace != nil {
		cardOpts = append(cardOpts, card.WithTrace(opts.Trace))
	}
	return card.New(p.font.Face, cardOpts...).Render(p.cfg)
}

// encode turns the rendered card into the requested format. c is nil for
// JSON output.
func (r *Runner) encode(ctx context.Context, c *card.Card, p *prepared, offsets []int, opts Options) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch opts.Format {
	case FormatPNG:
		data, err = sink.RenderPNG(c.Image)
	case FormatGIF:
		data, err = sink.RenderGIF(c.Image, offsets, r.gifOptions(ctx, opts)...)
	case FormatPDF:
		data, err = sink.RenderPDF(c.Image,
			sink.WithPDFTitle(p.cfg.Title),
			sink.WithPDFCreator(buildinfo.UserAgent()),
			sink.WithPDFPNGOptions(sink.WithCompression(png.BestCompression)),
		)
	case FormatJSON:
		data, err = sink.RenderJSON(p.cfg, r.jsonOptions(p.notices, opts)...)
	default:
		return nil, fmt.Errorf("unsupported format: %s", opts.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	return data, nil
}

func (r *Runner) gifOptions(ctx context.Context, opts Options) []sink.GIFOption {
	hooks := observability.Pipeline()
	gifOpts := []sink.GIFOption{
		sink.WithFrameDelay(opts.FrameDelay),
		sink.WithProgress(func(done, total int) {
			hooks.OnFrameEncoded(ctx, done, total)
			opts.Logger.Debug("encoded frame", "frame", done, "of", total)
			if opts.Progress != nil {
				opts.Progress(done, total)
			}
		}),
	}
	if opts.Compact {
		gifOpts = append(gifOpts, sink.WithCompactFrames())
	}
	if opts.Opaque {
		gifOpts = append(gifOpts, sink.WithOpaque())
	}
	if opts.LoopCount != 0 {
		gifOpts = append(gifOpts, sink.WithLoopCount(opts.LoopCount))
	}
	return gifOpts
}

func (r *Runner) jsonOptions(notices []citation.Notice, opts Options) []sink.JSONOption {
	jsonOpts := []sink.JSONOption{sink.WithJSONIndent(), sink.WithJSONNotices(notices)}
	if opts.IncludeTimeline {
		jsonOpts = append(jsonOpts, sink.WithJSONTimeline())
	}
	return jsonOpts
}

// Offsets returns the animation offsets for cfg: the override when given,
// the computed reveal timeline otherwise.
func Offsets(cfg citation.Config, override []int) ([]int, error) {
	if override == nil {
		return animate.Timeline(cfg), nil
	}
	if len(override) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "offset override is empty")
	}
	if err := checkOffsets(override, cfg.Height); err != nil {
		return nil, err
	}
	return override, nil
}
