package canvas

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

var (
	red  = color.NRGBA{R: 0xff, A: 0xff}
	blue = color.NRGBA{B: 0xff, A: 0xff}
)

func TestCanvasFillRect(t *testing.T) {
	c := New(20, 10, nil)
	if c.Width() != 20 || c.Height() != 10 {
		t.Fatalf("size = %dx%d", c.Width(), c.Height())
	}

	c.SetFillColor(red)
	c.FillRect(0, 0, 20, 10)

	got := color.NRGBAModel.Convert(c.Image().At(5, 5)).(color.NRGBA)
	if got != red {
		t.Errorf("pixel = %v, want %v", got, red)
	}
}

func TestCanvasClear(t *testing.T) {
	c := New(8, 8, nil)
	c.SetFillColor(red)
	c.FillRect(0, 0, 8, 8)
	c.Clear()

	if _, _, _, a := c.Image().At(4, 4).RGBA(); a != 0 {
		t.Errorf("alpha after Clear() = %d, want 0", a)
	}
}

func TestCanvasLine(t *testing.T) {
	c := New(10, 10, nil)
	c.SetStrokeColor(blue)
	c.SetLineWidth(2)
	c.Line(5, 0, 5, 10)

	got := color.NRGBAModel.Convert(c.Image().At(5, 5)).(color.NRGBA)
	if got.B == 0 {
		t.Errorf("pixel on line = %v, want blue", got)
	}
	if _, _, _, a := c.Image().At(0, 5).RGBA(); a != 0 {
		t.Error("pixel off the line was painted")
	}
}

func TestCanvasDashedLine(t *testing.T) {
	c := New(12, 4, nil)
	c.SetStrokeColor(blue)
	c.SetLineWidth(2)
	c.SetDash(4, 4)
	c.Line(0, 2, 12, 2)

	if _, _, _, a := c.Image().At(1, 2).RGBA(); a == 0 {
		t.Error("first dash was not painted")
	}
	if _, _, _, a := c.Image().At(6, 2).RGBA(); a != 0 {
		t.Error("gap between dashes was painted")
	}
}

func TestCanvasDrawImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}

	c := New(6, 6, nil)
	c.DrawImage(src, 3, 3)
	if _, _, _, a := c.Image().At(4, 4).RGBA(); a == 0 {
		t.Error("image was not drawn at its offset")
	}
	if _, _, _, a := c.Image().At(1, 1).RGBA(); a != 0 {
		t.Error("image drawn outside its offset")
	}
}

func TestRecorder(t *testing.T) {
	var seen []OpKind
	rec := NewRecorder(New(50, 20, nil))
	rec.OnOp = func(op Op) { seen = append(seen, op.Kind) }

	rec.SetFillColor(red)
	rec.FillRect(0, 0, 50, 20)
	rec.SetStrokeColor(blue)
	rec.SetLineWidth(3)
	rec.SetDash(3, 6)
	rec.Line(1, 2, 3, 4)
	rec.SetDash()
	rec.Line(5, 6, 7, 8)
	rec.FillText("hi", 25, 10, AlignCenter)

	ops := rec.Ops()
	if len(ops) != 4 {
		t.Fatalf("recorded %d ops, want 4", len(ops))
	}
	if len(seen) != 4 {
		t.Errorf("OnOp called %d times, want 4", len(seen))
	}

	lines := opsOfKind(rec, OpLine)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].LineWidth != 3 || len(lines[0].Dash) != 2 || lines[0].Color != blue {
		t.Errorf("first line = %+v", lines[0])
	}
	if len(lines[1].Dash) != 0 {
		t.Errorf("second line dash = %v, want solid", lines[1].Dash)
	}

	text := opsOfKind(rec, OpText)[0]
	if text.Text != "hi" || text.Align != AlignCenter || text.Color != red {
		t.Errorf("text op = %+v", text)
	}
	if !strings.Contains(text.String(), `"hi"`) {
		t.Errorf("String() = %q", text.String())
	}

	rec.Reset()
	if len(rec.Ops()) != 0 {
		t.Error("Reset() kept ops")
	}
}

func TestOpString(t *testing.T) {
	op := Op{Kind: OpRect, Color: color.NRGBA{0xF3, 0xD7, 0xE6, 0xff}, X2: 366, Y2: 160}
	if got := op.String(); !strings.Contains(got, "#F3D7E6") || !strings.Contains(got, "366x160") {
		t.Errorf("String() = %q", got)
	}
}

func opsOfKind(rec *Recorder, kind OpKind) []Op {
	var out []Op
	for _, op := range rec.Ops() {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}
