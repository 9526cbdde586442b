// Package canvas is the drawing surface the card renderer paints on.
//
// [Context] lists the primitives the renderer needs: stroke and fill
// colors, line width and dash pattern, lines, filled rectangles, single
// line text and images. [Canvas] implements it on top of fogleman/gg.
// [Recorder] wraps any Context and keeps a log of the calls, which backs
// draw-order tests and the CLI trace output.
package canvas

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Align positions text horizontally relative to its anchor x.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Context is a 2D drawing surface. Lines use the stroke color, line width
// and dash pattern in effect when they are drawn; rectangles and text use
// the fill color. Text is drawn on its baseline.
type Context interface {
	Width() int
	Height() int

	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(w float64)
	// SetDash sets the on/off lengths of stroked lines. No arguments
	// selects a solid line.
	SetDash(pattern ...float64)

	Line(x1, y1, x2, y2 float64)
	FillRect(x, y, w, h float64)
	FillText(s string, x, y float64, align Align)
	DrawImage(img image.Image, x, y int)

	// Clear resets every pixel to transparent.
	Clear()
	// Image returns the current pixels. The image may be reused by later
	// drawing calls.
	Image() image.Image
}

// Canvas is a raster Context backed by gg.
type Canvas struct {
	dc     *gg.Context
	fill   color.Color
	stroke color.Color
}

var _ Context = (*Canvas)(nil)

// New returns a transparent canvas of the given size. A nil face keeps gg's
// built-in bitmap face.
func New(width, height int, face font.Face) *Canvas {
	dc := gg.NewContext(width, height)
	dc.SetLineCapButt()
	if face != nil {
		dc.SetFontFace(face)
	}
	return &Canvas{dc: dc, fill: color.Black, stroke: color.Black}
}

func (c *Canvas) Width() int  { return c.dc.Width() }
func (c *Canvas) Height() int { return c.dc.Height() }

func (c *Canvas) SetFillColor(col color.Color)   { c.fill = col }
func (c *Canvas) SetStrokeColor(col color.Color) { c.stroke = col }
func (c *Canvas) SetLineWidth(w float64)         { c.dc.SetLineWidth(w) }
func (c *Canvas) SetDash(pattern ...float64)     { c.dc.SetDash(pattern...) }

func (c *Canvas) Line(x1, y1, x2, y2 float64) {
	c.dc.SetColor(c.stroke)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

func (c *Canvas) FillRect(x, y, w, h float64) {
	c.dc.SetColor(c.fill)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

func (c *Canvas) FillText(s string, x, y float64, align Align) {
	var ax float64
	switch align {
	case AlignCenter:
		ax = 0.5
	case AlignRight:
		ax = 1
	}
	c.dc.SetColor(c.fill)
	c.dc.DrawStringAnchored(s, x, y, ax, 0)
}

func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

func (c *Canvas) Clear() {
	c.dc.SetColor(color.Transparent)
	c.dc.Clear()
}

func (c *Canvas) Image() image.Image { return c.dc.Image() }
