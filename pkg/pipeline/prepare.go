package pipeline

import (
	"context"
	"encoding/json"
	"image"

	"github.com/matzehuels/citation/pkg/assets"
	"github.com/matzehuels/citation/pkg/cache"
	"github.com/matzehuels/citation/pkg/citation"
	"github.com/matzehuels/citation/pkg/errors"
)

// prepared holds the normalized card and its assets.
type prepared struct {
	cfg     citation.Config
	notices []citation.Notice
	font    *assets.Font
	logo    image.Image
	// logoDigest identifies the logo bytes and whether they were tinted.
	logoDigest string
}

func (p *prepared) close() {
	if p.font != nil {
		p.font.Close()
	}
}

// Prepare normalizes cfg and reports the coercions that were applied.
func Prepare(cfg citation.Config) (citation.Config, []citation.Notice, error) {
	return citation.Normalize(cfg)
}

// prepare normalizes the configuration and loads the font and logo.
// Configured local assets must exist before anything is fetched.
func (r *Runner) prepare(ctx context.Context, opts Options) (*prepared, error) {
	cfg, notices, err := Prepare(opts.Config)
	if err != nil {
		return nil, err
	}
	for _, n := range notices {
		opts.Logger.Warn("adjusted card dimension", "field", n.Field, "from", n.From, "to", n.To)
	}

	if err := assets.Require(opts.FontPath, opts.LogoPath); err != nil {
		return nil, err
	}

	p := &prepared{cfg: cfg, notices: notices}
	needFont := opts.Format != FormatJSON || cfg.ResizeReason
	needLogo := opts.Format != FormatJSON
	if !needFont {
		return p, nil
	}

	p.font, err = assets.LoadFont(ctx, opts.FontPath, float64(cfg.FontSize))
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("loaded font", "source", p.font.Source, "size", p.font.Size)
	if !needLogo {
		return p, nil
	}

	logo, err := assets.LoadLogo(ctx, opts.LogoPath, DefaultLogoSize(cfg))
	if err != nil {
		p.close()
		return nil, err
	}
	// Logos larger than the card are scaled down; smaller ones keep their size.
	p.logo = assets.Fit(logo.Image, min(cfg.Width, cfg.Height))
	p.logoDigest = logo.Digest
	if !opts.KeepLogoColor {
		pal, err := cfg.Palette()
		if err != nil {
			p.close()
			return nil, err
		}
		p.logo = assets.Tint(p.logo, pal.Foreground)
		p.logoDigest += ":" + cfg.Foreground
	}
	opts.Logger.Debug("loaded logo", "source", logo.Source, "size", p.logo.Bounds().Size())
	return p, nil
}

// DefaultLogoSize is the side of the generated logo for cfg.
func DefaultLogoSize(cfg citation.Config) int {
	return cfg.FontSize * 3 / 2
}

// checkOffsets rejects offsets outside the card.
func checkOffsets(offsets []int, height int) error {
	for i, y := range offsets {
		if y < 0 || y > height {
			return errors.New(errors.ErrCodeInvalidInput, "offset %d at frame %d is outside 0..%d", y, i, height)
		}
	}
	return nil
}

func hashOffsets(offsets []int) string {
	data, _ := json.Marshal(offsets)
	return cache.Hash(data)
}
