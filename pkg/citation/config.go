// Package citation defines the card configuration shared by every stage of
// the renderer.
//
// A [Config] is a plain value. Derived geometry lives in the layout package
// and is always recomputed from a Config, never stored next to it.
//
// # Normalization
//
// [Normalize] is the only place a Config is coerced. Odd canvas dimensions
// are bumped to the next even number and reported as [Notice] values, while
// out-of-range sizes, malformed barcodes and bad color tokens fail with a
// coded validation error from pkg/errors:
//
//	cfg, notices, err := citation.Normalize(cfg)
//	for _, n := range notices {
//	    logger.Warn(n.String())
//	}
package citation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image/color"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/citation/pkg/errors"
)

// Canvas bounds. Anything smaller cannot fit the fixed decorations; the
// maximums bound memory per canvas and are even, so rounding an odd size up
// never leaves the range.
const (
	MinWidth  = 100
	MinHeight = 110
	MaxWidth  = 8192
	MaxHeight = 8192

	// MaxFontSize bounds the glyph size.
	MaxFontSize = 1024
)

// Defaults for a fresh card.
const (
	DefaultWidth   = 366
	DefaultHeight  = 160
	DefaultTitle   = "M.O.A. CITATION"
	DefaultReason  = "Protocol Violated.\nEntry Permit: Invalid Name"
	DefaultPenalty = "LAST WARNING - NO PENALTY"

	DefaultBackground = "#F3D7E6"
	DefaultForeground = "#BFA8A8"
	DefaultText       = "#5A5559"
)

// DefaultBarcode is the bit pattern printed on a default card.
var DefaultBarcode = []int{1, 0, 1, 0, 1, 0, 1, 1, 0, 1, 1}

// Config describes one citation card.
type Config struct {
	Width  int `toml:"width" json:"width"`
	Height int `toml:"height" json:"height"`

	TopBottomDotSize int `toml:"top_bottom_dot_size" json:"top_bottom_dot_size"`
	SideDotSize      int `toml:"side_dot_size" json:"side_dot_size"`
	SideDotSpacing   int `toml:"side_dot_spacing" json:"side_dot_spacing"`
	SeparatorDotSize int `toml:"separator_dot_size" json:"separator_dot_size"`
	BarcodeWidth     int `toml:"barcode_width" json:"barcode_width"`
	BarcodeHeight    int `toml:"barcode_height" json:"barcode_height"`
	FontSize         int `toml:"font_size" json:"font_size"`

	Barcode []int `toml:"barcode" json:"barcode"`

	Title   string `toml:"title" json:"title"`
	Reason  string `toml:"reason" json:"reason"`
	Penalty string `toml:"penalty" json:"penalty"`

	// ResizeReason grows the canvas until title, penalty and reason fit.
	ResizeReason bool `toml:"resize_reason" json:"resize_reason"`
	// ResizeLimit caps the grown height. Ignored unless greater than Height.
	ResizeLimit int `toml:"resize_limit" json:"resize_limit"`

	Background string `toml:"background" json:"background"`
	Foreground string `toml:"foreground" json:"foreground"`
	Text       string `toml:"text" json:"text"`
}

// Default returns the stock card configuration.
func Default() Config {
	return Config{
		Width:            DefaultWidth,
		Height:           DefaultHeight,
		TopBottomDotSize: 2,
		SideDotSize:      6,
		SideDotSpacing:   4,
		SeparatorDotSize: 2,
		BarcodeWidth:     2,
		BarcodeHeight:    12,
		FontSize:         16,
		Barcode:          slices.Clone(DefaultBarcode),
		Title:            DefaultTitle,
		Reason:           DefaultReason,
		Penalty:          DefaultPenalty,
		Background:       DefaultBackground,
		Foreground:       DefaultForeground,
		Text:             DefaultText,
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	c.Barcode = slices.Clone(c.Barcode)
	return c
}

// WithWidth returns a copy of c with the width replaced.
func (c Config) WithWidth(w int) Config {
	out := c.Clone()
	out.Width = w
	return out
}

// WithHeight returns a copy of c with the height replaced.
func (c Config) WithHeight(h int) Config {
	out := c.Clone()
	out.Height = h
	return out
}

// Notice reports a value that Normalize changed instead of rejecting.
type Notice struct {
	Field string
	From  int
	To    int
}

func (n Notice) String() string {
	return fmt.Sprintf("%s %d is odd, using %d", n.Field, n.From, n.To)
}

// Validate checks c without changing it. Odd dimensions are accepted here;
// Normalize is responsible for making them even.
func Validate(c Config) error {
	if err := errors.ValidateDimension("width", c.Width, MinWidth, MaxWidth); err != nil {
		return err
	}
	if err := errors.ValidateDimension("height", c.Height, MinHeight, MaxHeight); err != nil {
		return err
	}
	if c.FontSize > MaxFontSize {
		return errors.New(errors.ErrCodeInvalidDimension, "font_size %d is above the maximum of %d", c.FontSize, MaxFontSize)
	}
	sizes := []struct {
		name  string
		value int
	}{
		{"top_bottom_dot_size", c.TopBottomDotSize},
		{"side_dot_size", c.SideDotSize},
		{"side_dot_spacing", c.SideDotSpacing},
		{"separator_dot_size", c.SeparatorDotSize},
		{"barcode_width", c.BarcodeWidth},
		{"barcode_height", c.BarcodeHeight},
		{"font_size", c.FontSize},
	}
	for _, s := range sizes {
		if err := errors.ValidatePositive(s.name, s.value); err != nil {
			return err
		}
	}
	if c.ResizeLimit < 0 {
		return errors.New(errors.ErrCodeInvalidDimension, "resize_limit must not be negative, got %d", c.ResizeLimit)
	}
	if err := errors.ValidateBarcode(c.Barcode); err != nil {
		return err
	}
	for _, col := range []struct{ name, token string }{
		{"background", c.Background},
		{"foreground", c.Foreground},
		{"text", c.Text},
	} {
		if err := errors.ValidateColor(col.name, col.token); err != nil {
			return err
		}
	}
	return nil
}

// Normalize validates c and returns a copy with odd dimensions made even.
// The input is never modified.
func Normalize(c Config) (Config, []Notice, error) {
	if err := Validate(c); err != nil {
		return Config{}, nil, err
	}
	out := c.Clone()
	var notices []Notice
	if out.Width%2 != 0 {
		notices = append(notices, Notice{Field: "width", From: out.Width, To: out.Width + 1})
		out.Width++
	}
	if out.Height%2 != 0 {
		notices = append(notices, Notice{Field: "height", From: out.Height, To: out.Height + 1})
		out.Height++
	}
	return out, notices, nil
}

// Palette holds the three resolved card colors.
type Palette struct {
	Background color.NRGBA
	Foreground color.NRGBA
	Text       color.NRGBA
}

// Palette resolves the color tokens of c.
func (c Config) Palette() (Palette, error) {
	var (
		p   Palette
		err error
	)
	if p.Background, err = ParseColor(c.Background); err != nil {
		return Palette{}, err
	}
	if p.Foreground, err = ParseColor(c.Foreground); err != nil {
		return Palette{}, err
	}
	if p.Text, err = ParseColor(c.Text); err != nil {
		return Palette{}, err
	}
	return p, nil
}

// ParseColor converts "#RRGGBB" or "#RRGGBBAA" into a color.
func ParseColor(token string) (color.NRGBA, error) {
	if err := errors.ValidateColor("color", token); err != nil {
		return color.NRGBA{}, err
	}
	hex := strings.TrimPrefix(token, "#")
	if len(hex) == 6 {
		hex += "ff"
	}
	v, _ := strconv.ParseUint(hex, 16, 32)
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// ParseBarcode reads a bit string such as "10110". Commas and whitespace
// between digits are ignored so "1,0,1" and "1 0 1" work too.
func ParseBarcode(s string) ([]int, error) {
	bits := make([]int, 0, len(s))
	for i, r := range s {
		switch {
		case r == '0' || r == '1':
			bits = append(bits, int(r-'0'))
		case r == ',' || r == ' ' || r == '\t':
		case r >= '2' && r <= '9':
			return nil, errors.New(errors.ErrCodeInvalidBarcode,
				"barcode can only contain ones and zeros (got %c at position %d)", r, i)
		default:
			return nil, errors.New(errors.ErrCodeInvalidBarcode,
				"barcode %q contains %q, expected a string of 0 and 1", s, r)
		}
	}
	return bits, nil
}

// FormatBarcode is the inverse of ParseBarcode.
func FormatBarcode(bits []int) string {
	var b strings.Builder
	for _, v := range bits {
		b.WriteString(strconv.Itoa(v))
	}
	return b.String()
}

// Hash returns a stable content hash of c, used for cache keys and ETags.
func Hash(c Config) string {
	data, _ := json.Marshal(c)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
