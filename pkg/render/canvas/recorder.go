package canvas

import (
	"fmt"
	"image"
	"image/color"
	"slices"
)

// OpKind identifies a recorded drawing call.
type OpKind string

const (
	OpLine  OpKind = "line"
	OpRect  OpKind = "rect"
	OpText  OpKind = "text"
	OpImage OpKind = "image"
	OpClear OpKind = "clear"
)

// Op is one recorded drawing call together with the style in effect.
type Op struct {
	Kind OpKind

	// Color is the stroke color for lines and the fill color otherwise.
	Color     color.Color
	LineWidth float64
	Dash      []float64

	// Line endpoints, or rectangle origin and size in X1, Y1, X2, Y2.
	X1, Y1, X2, Y2 float64

	Text  string
	Align Align
}

func (op Op) String() string {
	switch op.Kind {
	case OpLine:
		return fmt.Sprintf("line (%g,%g)-(%g,%g) width=%g dash=%v color=%s",
			op.X1, op.Y1, op.X2, op.Y2, op.LineWidth, op.Dash, hexColor(op.Color))
	case OpRect:
		return fmt.Sprintf("rect (%g,%g) %gx%g color=%s", op.X1, op.Y1, op.X2, op.Y2, hexColor(op.Color))
	case OpText:
		return fmt.Sprintf("text %q at (%g,%g) align=%s color=%s", op.Text, op.X1, op.Y1, op.Align, hexColor(op.Color))
	case OpImage:
		return fmt.Sprintf("image at (%g,%g) %gx%g", op.X1, op.Y1, op.X2, op.Y2)
	default:
		return string(op.Kind)
	}
}

// Recorder forwards drawing calls to an inner Context and records them.
type Recorder struct {
	inner Context
	ops   []Op
	// OnOp, when set, is called after every recorded call.
	OnOp func(Op)

	fill, stroke color.Color
	lineWidth    float64
	dash         []float64
}

var _ Context = (*Recorder)(nil)

// NewRecorder wraps inner.
func NewRecorder(inner Context) *Recorder {
	return &Recorder{inner: inner, fill: color.Black, stroke: color.Black, lineWidth: 1}
}

// Ops returns the calls recorded so far.
func (r *Recorder) Ops() []Op { return r.ops }

// Reset forgets recorded calls. Style state is kept.
func (r *Recorder) Reset() { r.ops = nil }

func (r *Recorder) record(op Op) {
	r.ops = append(r.ops, op)
	if r.OnOp != nil {
		r.OnOp(op)
	}
}

func (r *Recorder) Width() int  { return r.inner.Width() }
func (r *Recorder) Height() int { return r.inner.Height() }

func (r *Recorder) SetFillColor(c color.Color) {
	r.fill = c
	r.inner.SetFillColor(c)
}

func (r *Recorder) SetStrokeColor(c color.Color) {
	r.stroke = c
	r.inner.SetStrokeColor(c)
}

func (r *Recorder) SetLineWidth(w float64) {
	r.lineWidth = w
	r.inner.SetLineWidth(w)
}

func (r *Recorder) SetDash(pattern ...float64) {
	r.dash = slices.Clone(pattern)
	r.inner.SetDash(pattern...)
}

func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.inner.Line(x1, y1, x2, y2)
	r.record(Op{
		Kind: OpLine, Color: r.stroke, LineWidth: r.lineWidth, Dash: slices.Clone(r.dash),
		X1: x1, Y1: y1, X2: x2, Y2: y2,
	})
}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.inner.FillRect(x, y, w, h)
	r.record(Op{Kind: OpRect, Color: r.fill, X1: x, Y1: y, X2: w, Y2: h})
}

func (r *Recorder) FillText(s string, x, y float64, align Align) {
	r.inner.FillText(s, x, y, align)
	r.record(Op{Kind: OpText, Color: r.fill, Text: s, X1: x, Y1: y, Align: align})
}

func (r *Recorder) DrawImage(img image.Image, x, y int) {
	r.inner.DrawImage(img, x, y)
	b := img.Bounds()
	r.record(Op{Kind: OpImage, X1: float64(x), Y1: float64(y), X2: float64(b.Dx()), Y2: float64(b.Dy())})
}

func (r *Recorder) Clear() {
	r.inner.Clear()
	r.record(Op{Kind: OpClear})
}

func (r *Recorder) Image() image.Image { return r.inner.Image() }

func hexColor(c color.Color) string {
	if c == nil {
		return "none"
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}
