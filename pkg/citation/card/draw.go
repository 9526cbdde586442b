package card

import (
	"image"

	"github.com/matzehuels/citation/pkg/citation"
	"github.com/matzehuels/citation/pkg/citation/layout"
	"github.com/matzehuels/citation/pkg/render/canvas"
	"github.com/matzehuels/citation/pkg/textfit"
)

// drawer holds the state of one Draw call.
type drawer struct {
	ctx canvas.Context
	cfg citation.Config
	p   layout.Profile
	pal citation.Palette
	m   textfit.Measurer
}

func (d *drawer) size() (w, h float64) {
	return float64(d.cfg.Width), float64(d.cfg.Height)
}

func (d *drawer) background() {
	w, h := d.size()
	d.ctx.SetFillColor(d.pal.Background)
	d.ctx.FillRect(0, 0, w, h)
}

func (d *drawer) logo(img image.Image) {
	b := img.Bounds()
	x := d.cfg.Width/2 - b.Dx()/2 - 1
	y := d.cfg.Height - (d.p.BottomSeparatorFromBottom + b.Dy()/2) + 4
	d.ctx.DrawImage(img, x, y)
}

func (d *drawer) borders() {
	w, h := d.size()
	tb := float64(d.cfg.TopBottomDotSize)

	d.ctx.SetStrokeColor(d.pal.Foreground)
	d.ctx.SetLineWidth(tb)
	d.ctx.SetDash(tb, tb)
	d.ctx.Line(0, tb/2, w, tb/2)
	d.ctx.Line(tb, h-tb/2, w, h-tb/2)

	sd := float64(d.cfg.SideDotSize)
	left := float64(d.p.SideDotsFromLeft) + sd/2
	right := w - float64(d.p.SideDotsFromRight) - sd/2
	top := float64(d.p.SideDotsFromTop)
	bottom := h - tb

	d.ctx.SetLineWidth(sd)
	d.ctx.SetDash(sd, sd*2)
	d.ctx.Line(left, top, left, bottom)
	d.ctx.Line(right, top, right, bottom)
}

func (d *drawer) separators() {
	w, h := d.size()
	sep := float64(d.cfg.SeparatorDotSize)
	x1 := float64(d.p.SeparatorFromLeft)
	x2 := w - float64(d.p.SeparatorFromRight)

	d.ctx.SetStrokeColor(d.pal.Text)
	d.ctx.SetLineWidth(sep)
	d.ctx.SetDash(sep, sep)

	y := float64(d.p.TopSeparatorFromTop) + sep/2
	d.ctx.Line(x1, y, x2, y)
	y = h - (float64(d.p.BottomSeparatorFromBottom) + sep/2)
	d.ctx.Line(x1, y, x2, y)
}

func (d *drawer) rightEdge() {
	w, h := d.size()
	tb := float64(d.cfg.TopBottomDotSize)

	d.ctx.SetStrokeColor(d.pal.Foreground)
	d.ctx.SetLineWidth(tb)
	d.ctx.SetDash()
	d.ctx.Line(w-tb/2, 0, w-tb/2, h)
}

// barcode draws one bar per bit, ink for 1 and background for 0, and the
// small marker block to the left of the bars.
func (d *drawer) barcode() {
	bw := float64(d.cfg.BarcodeWidth)
	bh := float64(d.cfg.BarcodeHeight)
	x0 := float64(d.p.BarcodeLeft(d.cfg))
	top := float64(d.p.BarcodeFromTop)

	d.ctx.SetLineWidth(bw)
	d.ctx.SetDash()
	for i, bit := range d.cfg.Barcode {
		if bit == 1 {
			d.ctx.SetStrokeColor(d.pal.Text)
		} else {
			d.ctx.SetStrokeColor(d.pal.Background)
		}
		x := x0 + bw*float64(i) + bw/2
		d.ctx.Line(x, top, x, top+bh)
	}

	d.ctx.SetFillColor(d.pal.Text)
	d.ctx.FillRect(x0-bw*3, top, bw*2, bh/2)
}

func (d *drawer) text() {
	w, h := d.size()
	left := float64(d.p.TextFromLeft)
	reasonWidth := float64(d.p.ReasonMaxWidth)

	d.ctx.SetFillColor(d.pal.Text)
	d.block(d.cfg.Title, left, float64(d.p.TitleFromTop), canvas.AlignLeft, float64(d.p.TitleMaxWidth))

	reason := textfit.Fit(d.cfg.Reason, d.m, reasonWidth, float64(d.p.ReasonMaxHeight))
	d.block(reason, left, float64(d.p.ReasonFromTop), canvas.AlignLeft, reasonWidth)

	d.block(d.cfg.Penalty, w/2-3, h-float64(d.p.PenaltyFromBottom), canvas.AlignCenter, reasonWidth)
}

// block draws text line by line starting at baseline y. Each line is
// truncated to maxWidth.
func (d *drawer) block(text string, x, y float64, align canvas.Align, maxWidth float64) {
	if text == "" {
		return
	}
	advance := d.m.LineHeight() + d.m.LineGap()
	for i, line := range textfit.Lines(text) {
		line = textfit.FitWidth(line, d.m, maxWidth)
		if line == "" {
			continue
		}
		d.ctx.FillText(line, x, y+float64(i)*advance, align)
	}
}
