package animate

import (
	"image"

	"github.com/matzehuels/citation/pkg/render/canvas"
)

// FrameFunc receives frame i of total. The frame image is reused for the
// next frame and must not be retained.
type FrameFunc func(i, total int, frame image.Image) error

// Frames composites card once per offset and hands each frame to fn in
// order. For offset y the card is drawn shifted down by height-y, so only
// its top y rows are visible. A fresh scratch canvas is used per call.
//
// Frames stops at the first error returned by fn.
func Frames(card image.Image, offsets []int, fn FrameFunc) error {
	b := card.Bounds()
	scratch := canvas.New(b.Dx(), b.Dy(), nil)
	height := b.Dy()

	for i, y := range offsets {
		scratch.Clear()
		scratch.DrawImage(card, 0, height-y)
		if err := fn(i, len(offsets), scratch.Image()); err != nil {
			return err
		}
	}
	return nil
}
