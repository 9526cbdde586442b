// Package layout derives every offset and text box of a citation card from
// its configuration.
//
// [Compute] is closed-form arithmetic over a [citation.Config]. A [Profile]
// is never updated in place: when the config changes, compute a new one.
//
// Offsets are in pixels. Values named *FromTop are measured from the top
// edge, *FromBottom from the bottom edge, and so on.
package layout

import "github.com/matzehuels/citation/pkg/citation"

// Profile is the geometry of one card.
type Profile struct {
	SideDotsFromLeft  int `json:"side_dots_from_left"`
	SideDotsFromTop   int `json:"side_dots_from_top"`
	SideDotsFromRight int `json:"side_dots_from_right"`

	SeparatorFromLeft  int `json:"separator_from_left"`
	SeparatorFromRight int `json:"separator_from_right"`

	TopSeparatorFromTop       int `json:"top_separator_from_top"`
	BottomSeparatorFromBottom int `json:"bottom_separator_from_bottom"`

	BarcodeFromRight int `json:"barcode_from_right"`
	BarcodeFromTop   int `json:"barcode_from_top"`

	TextFromLeft int `json:"text_from_left"`

	TitleFromTop  int `json:"title_from_top"`
	TitleMaxWidth int `json:"title_max_width"`

	ReasonFromTop   int `json:"reason_from_top"`
	ReasonMaxWidth  int `json:"reason_max_width"`
	ReasonMaxHeight int `json:"reason_max_height"`

	PenaltyFromBottom int `json:"penalty_from_bottom"`
}

// Compute returns the geometry for c.
//
// The top separator sits at a fixed distance below the top border. It does
// not move for titles that contain line breaks; such titles overlap the
// separator instead.
func Compute(c citation.Config) Profile {
	var p Profile

	p.SideDotsFromLeft = c.SideDotSpacing
	p.SideDotsFromTop = c.SideDotSpacing + c.TopBottomDotSize
	p.SideDotsFromRight = c.SideDotSpacing + c.TopBottomDotSize + 2

	p.SeparatorFromLeft = p.SideDotsFromLeft + c.SideDotSize + 6
	p.SeparatorFromRight = p.SideDotsFromRight + c.SideDotSize + 6

	p.TopSeparatorFromTop = c.TopBottomDotSize + c.FontSize*2
	p.BottomSeparatorFromBottom = c.TopBottomDotSize + c.FontSize*2 + 10

	p.BarcodeFromRight = p.SideDotsFromRight + c.SideDotSize + 8
	p.BarcodeFromTop = c.TopBottomDotSize + 4

	p.TextFromLeft = c.SideDotSpacing + c.SideDotSize + 12

	p.TitleFromTop = c.TopBottomDotSize + c.FontSize + 2
	p.TitleMaxWidth = c.Width - (p.BarcodeFromRight +
		len(c.Barcode)*c.BarcodeWidth +
		c.BarcodeWidth*3 +
		p.TextFromLeft +
		c.FontSize)

	p.ReasonFromTop = p.TopSeparatorFromTop + c.SeparatorDotSize + c.FontSize + 4
	p.ReasonMaxWidth = c.Width - (p.TextFromLeft + p.SideDotsFromRight + c.SideDotSize)
	p.ReasonMaxHeight = c.Height - (p.TopSeparatorFromTop + p.BottomSeparatorFromBottom + c.FontSize)

	p.PenaltyFromBottom = p.BottomSeparatorFromBottom - c.FontSize - 10

	return p
}

// BarcodeLeft is the x coordinate of the first barcode bar.
func (p Profile) BarcodeLeft(c citation.Config) int {
	return c.Width - p.BarcodeFromRight - len(c.Barcode)*c.BarcodeWidth
}

// RevealStops returns the three resting offsets of the reveal animation:
// just past the top separator, just past the bottom separator, and the
// full card height.
func (p Profile) RevealStops(height int) (first, second, full int) {
	return p.TopSeparatorFromTop + 2, height - p.BottomSeparatorFromBottom + 2, height
}
