// Package card paints a citation card.
//
// The draw order is fixed and later steps paint over earlier ones:
//
//  1. background
//  2. logo, centered on the bottom separator
//  3. dotted top and bottom borders
//  4. dotted side borders
//  5. dotted top and bottom separators
//  6. solid right edge
//  7. barcode and its marker
//  8. title, wrapped reason and centered penalty
//
// The renderer works against [canvas.Context] so the same sequence can be
// traced with a [canvas.Recorder].
package card

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/matzehuels/citation/pkg/citation"
	"github.com/matzehuels/citation/pkg/citation/layout"
	"github.com/matzehuels/citation/pkg/render/canvas"
	"github.com/matzehuels/citation/pkg/textfit"
)

// Renderer draws cards with one font and an optional logo.
type Renderer struct {
	face     font.Face
	measurer textfit.Measurer
	logo     image.Image
	trace    func(canvas.Op)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogo draws img centered on the bottom separator.
func WithLogo(img image.Image) Option {
	return func(r *Renderer) { r.logo = img }
}

// WithMeasurer replaces the measurer derived from the face.
func WithMeasurer(m textfit.Measurer) Option {
	return func(r *Renderer) { r.measurer = m }
}

// WithTrace reports every drawing call made by Render.
func WithTrace(fn func(canvas.Op)) Option {
	return func(r *Renderer) { r.trace = fn }
}

// New returns a Renderer for face. A nil face selects a small built-in
// bitmap face.
func New(face font.Face, opts ...Option) *Renderer {
	if face == nil {
		face = basicfont.Face7x13
	}
	r := &Renderer{face: face}
	for _, opt := range opts {
		opt(r)
	}
	if r.measurer == nil {
		r.measurer = textfit.NewFaceMeasurer(face, textfit.DefaultLineGap)
	}
	return r
}

// Measurer returns the measurer used for fitting text.
func (r *Renderer) Measurer() textfit.Measurer { return r.measurer }

// Card is a rendered card.
type Card struct {
	Image   image.Image
	Config  citation.Config
	Profile layout.Profile
}

// Render paints cfg onto a new canvas of the configured size. cfg must be
// normalized.
func (r *Renderer) Render(cfg citation.Config) (*Card, error) {
	var ctx canvas.Context = canvas.New(cfg.Width, cfg.Height, r.face)
	if r.trace != nil {
		rec := canvas.NewRecorder(ctx)
		rec.OnOp = r.trace
		ctx = rec
	}
	profile, err := r.Draw(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Card{Image: ctx.Image(), Config: cfg, Profile: profile}, nil
}

// Draw paints cfg onto ctx and returns the geometry it used.
func (r *Renderer) Draw(ctx canvas.Context, cfg citation.Config) (layout.Profile, error) {
	pal, err := cfg.Palette()
	if err != nil {
		return layout.Profile{}, err
	}
	p := layout.Compute(cfg)

	d := drawer{ctx: ctx, cfg: cfg, p: p, pal: pal, m: r.measurer}
	d.background()
	if r.logo != nil {
		d.logo(r.logo)
	}
	d.borders()
	d.separators()
	d.rightEdge()
	d.barcode()
	d.text()
	return p, nil
}
