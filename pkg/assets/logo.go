package assets

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/citation/pkg/errors"
)

// BuiltinLogo names the generated default logo.
const BuiltinLogo = "builtin:seal"

// Logo is a decoded logo image.
type Logo struct {
	Image  image.Image
	Source string
	Digest string
}

// LoadLogo decodes the PNG, JPEG, GIF, BMP or TIFF image at location. An
// empty location generates the default seal at the given size.
func LoadLogo(ctx context.Context, location string, size int) (*Logo, error) {
	if location == "" {
		return &Logo{Image: DefaultLogo(size), Source: BuiltinLogo, Digest: BuiltinLogo}, nil
	}
	data, err := Read(ctx, location)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidAsset, err, "decode logo %s", location)
	}
	return &Logo{Image: img, Source: location, Digest: digest(data)}, nil
}

// Tint recolors every pixel of img to c, keeping the pixel's alpha scaled by
// the alpha of c.
func Tint(img image.Image, c color.NRGBA) *image.NRGBA {
	return imaging.AdjustFunc(img, func(px color.NRGBA) color.NRGBA {
		return color.NRGBA{
			R: c.R,
			G: c.G,
			B: c.B,
			A: uint8(uint16(px.A) * uint16(c.A) / 0xff),
		}
	})
}

// Fit scales img down so neither side exceeds maxSide. Smaller images are
// returned unchanged.
func Fit(img image.Image, maxSide int) image.Image {
	b := img.Bounds()
	if maxSide <= 0 || (b.Dx() <= maxSide && b.Dy() <= maxSide) {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
}

// DefaultLogo draws a white seal: a ring around a five-pointed star. Tint it
// to match the card.
func DefaultLogo(size int) *image.NRGBA {
	size = max(size, 8)
	dc := gg.NewContext(size, size)
	c := float64(size) / 2
	stroke := math.Max(1, float64(size)/12)

	dc.SetColor(color.White)
	dc.SetLineWidth(stroke)
	dc.DrawCircle(c, c, c-stroke)
	dc.Stroke()

	dc.DrawRegularPolygon(5, c, c, c*0.55, -math.Pi/2)
	dc.Fill()

	return imaging.Clone(dc.Image())
}
