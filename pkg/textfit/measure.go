// Package textfit measures text and makes it fit a box.
//
// Width fitting truncates a single line from the end. Wrapping packs words
// greedily into lines, keeping the line breaks already present. Height
// fitting drops trailing lines. None of these ever fail: text that cannot
// fit is shortened, down to the empty string if needed.
//
// All operations take the [Measurer] explicitly so measuring never depends
// on hidden drawing state.
package textfit

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DefaultLineGap is the vertical space between two drawn lines.
const DefaultLineGap = 2

// Measurer reports the rendered size of text in one font.
type Measurer interface {
	// Width is the advance of the widest line in s.
	Width(s string) float64
	// Height is the height of the block formed by all lines in s.
	// It is zero for the empty string.
	Height(s string) float64
	// LineHeight is the ascent plus descent of a single line.
	LineHeight() float64
	// LineGap is the extra space between consecutive lines.
	LineGap() float64
}

// Lines splits s on line breaks.
func Lines(s string) []string {
	return strings.Split(s, "\n")
}

// BlockHeight is the height of n lines drawn with the given metrics.
func BlockHeight(n int, lineHeight, gap float64) float64 {
	if n <= 0 {
		return 0
	}
	return float64(n)*lineHeight + float64(n-1)*gap
}

// FaceMeasurer measures text with a font.Face.
type FaceMeasurer struct {
	face font.Face
	gap  float64
}

// NewFaceMeasurer returns a Measurer for face. A negative gap selects
// DefaultLineGap.
func NewFaceMeasurer(face font.Face, gap float64) *FaceMeasurer {
	if gap < 0 {
		gap = DefaultLineGap
	}
	return &FaceMeasurer{face: face, gap: gap}
}

// Face returns the underlying face.
func (m *FaceMeasurer) Face() font.Face { return m.face }

func (m *FaceMeasurer) Width(s string) float64 {
	var widest fixed.Int26_6
	for _, line := range Lines(s) {
		if w := font.MeasureString(m.face, line); w > widest {
			widest = w
		}
	}
	return fixedToFloat(widest)
}

func (m *FaceMeasurer) Height(s string) float64 {
	if s == "" {
		return 0
	}
	return BlockHeight(len(Lines(s)), m.LineHeight(), m.gap)
}

func (m *FaceMeasurer) LineHeight() float64 {
	metrics := m.face.Metrics()
	return fixedToFloat(metrics.Ascent + metrics.Descent)
}

func (m *FaceMeasurer) LineGap() float64 { return m.gap }

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// FixedMeasurer measures text set in a monospaced font with known metrics,
// without loading the font. Every rune advances by Advance.
type FixedMeasurer struct {
	Advance float64
	Line    float64
	Gap     float64
}

func (m FixedMeasurer) Width(s string) float64 {
	widest := 0
	for _, line := range Lines(s) {
		widest = max(widest, utf8.RuneCountInString(line))
	}
	return float64(widest) * m.Advance
}

func (m FixedMeasurer) Height(s string) float64 {
	if s == "" {
		return 0
	}
	return BlockHeight(len(Lines(s)), m.Line, m.Gap)
}

func (m FixedMeasurer) LineHeight() float64 { return m.Line }

func (m FixedMeasurer) LineGap() float64 { return m.Gap }
