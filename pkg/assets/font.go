// Package assets loads the font and logo a card is drawn with.
//
// Both can come from a local path or an http(s) URL. An empty location
// selects the built-in default: Go Mono for text and a generated seal for
// the logo. A configured location that does not exist is an
// ASSET_NOT_FOUND error; the renderer never silently falls back.
package assets

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	webfont "github.com/tdewolff/font"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/citation/pkg/errors"
	"github.com/matzehuels/citation/pkg/textfit"
)

// BuiltinFont names the embedded default font.
const BuiltinFont = "builtin:gomono"

// Font is a font face at one size.
type Font struct {
	Face font.Face
	// Source is the location the font was read from.
	Source string
	// Digest identifies the font bytes, for cache keys.
	Digest string
	Size   float64
}

// Measurer returns a text measurer for the face.
func (f *Font) Measurer() textfit.Measurer {
	return textfit.NewFaceMeasurer(f.Face, textfit.DefaultLineGap)
}

// Close releases the face.
func (f *Font) Close() error {
	return f.Face.Close()
}

// LoadFont loads the font at location in the given pixel size. An empty
// location loads the built-in font.
func LoadFont(ctx context.Context, location string, size float64) (*Font, error) {
	if location == "" {
		return ParseFont(gomono.TTF, BuiltinFont, size)
	}
	data, err := Read(ctx, location)
	if err != nil {
		return nil, err
	}
	return ParseFont(data, location, size)
}

// ParseFont builds a face from TTF, OTF, WOFF or WOFF2 data. name is used
// for messages and to recognize web fonts by extension.
func ParseFont(data []byte, name string, size float64) (*Font, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimension, "font size must be positive, got %g", size)
	}
	if isWebFont(name, data) {
		sfnt, err := webfont.ToSFNT(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidAsset, err, "convert web font %s", name)
		}
		data = sfnt
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAsset, err, "parse font %s", name)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAsset, err, "create face for %s", name)
	}

	sum := digest(data)
	return &Font{Face: face, Source: name, Digest: sum, Size: size}, nil
}

// isWebFont checks the extension and the WOFF/WOFF2 magic bytes.
func isWebFont(name string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".woff", ".woff2":
		return true
	}
	return bytes.HasPrefix(data, []byte("wOFF")) || bytes.HasPrefix(data, []byte("wOF2"))
}
