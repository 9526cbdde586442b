package sink

import (
	"bytes"
	"cmp"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"slices"
	"time"

	"github.com/matzehuels/citation/pkg/citation/animate"
)

// DefaultFrameDelay is the time each frame is shown.
const DefaultFrameDelay = 10 * time.Millisecond

// GIFOption configures GIF rendering.
type GIFOption func(*gifRenderer)

type gifRenderer struct {
	delay    time.Duration
	loop     int
	opaque   bool
	compact  bool
	progress func(done, total int)
}

// WithFrameDelay sets how long each frame is shown.
func WithFrameDelay(d time.Duration) GIFOption {
	return func(r *gifRenderer) { r.delay = d }
}

// WithLoopCount sets the GIF loop count: 0 loops forever, -1 plays once.
func WithLoopCount(n int) GIFOption {
	return func(r *gifRenderer) { r.loop = n }
}

// WithOpaque disables the transparent palette entry. Hidden parts of the
// card are then drawn in the nearest card color.
func WithOpaque() GIFOption {
	return func(r *gifRenderer) { r.opaque = true }
}

// WithCompactFrames merges runs of identical offsets into one frame shown
// for the combined delay. Playback looks the same; the file is smaller.
func WithCompactFrames() GIFOption {
	return func(r *gifRenderer) { r.compact = true }
}

// WithProgress is called after each frame is encoded.
func WithProgress(fn func(done, total int)) GIFOption {
	return func(r *gifRenderer) { r.progress = fn }
}

// RenderGIF encodes the reveal animation of card for the given offsets.
func RenderGIF(card image.Image, offsets []int, opts ...GIFOption) ([]byte, error) {
	r := gifRenderer{delay: DefaultFrameDelay}
	for _, opt := range opts {
		opt(&r)
	}
	if len(offsets) == 0 {
		return nil, fmt.Errorf("gif: no frames")
	}

	q := newQuantizer(card, !r.opaque)
	delay := centiseconds(r.delay)
	b := card.Bounds()
	anim := &gif.GIF{
		LoopCount: r.loop,
		Config: image.Config{
			ColorModel: q.palette,
			Width:      b.Dx(),
			Height:     b.Dy(),
		},
	}

	err := animate.Frames(card, offsets, func(i, total int, frame image.Image) error {
		if r.compact && i > 0 && offsets[i] == offsets[i-1] {
			anim.Delay[len(anim.Delay)-1] += delay
		} else {
			anim.Image = append(anim.Image, q.paletted(frame))
			anim.Delay = append(anim.Delay, delay)
			anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
		}
		if r.progress != nil {
			r.progress(i+1, total)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("gif: %w", err)
	}
	return buf.Bytes(), nil
}

// centiseconds converts d to GIF delay units, at least 1.
func centiseconds(d time.Duration) int {
	return max(1, int((d+5*time.Millisecond)/(10*time.Millisecond)))
}

// quantizer maps frame pixels onto a palette built from the card.
type quantizer struct {
	palette     color.Palette
	transparent bool
	index       map[color.NRGBA]uint8
}

// newQuantizer builds a palette of at most 256 entries from the colors of
// card, most frequent first. With transparent set, entry 0 is reserved for
// fully transparent pixels.
func newQuantizer(card image.Image, transparent bool) *quantizer {
	counts := make(map[color.NRGBA]int)
	b := card.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(card.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			counts[c]++
		}
	}

	type entry struct {
		c color.NRGBA
		n int
	}
	entries := make([]entry, 0, len(counts))
	for c, n := range counts {
		entries = append(entries, entry{c, n})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if d := cmp.Compare(b.n, a.n); d != 0 {
			return d
		}
		return cmp.Compare(packNRGBA(a.c), packNRGBA(b.c))
	})

	limit := 256
	var pal color.Palette
	if transparent {
		pal = append(pal, color.NRGBA{})
		limit--
	}
	for i := 0; i < len(entries) && i < limit; i++ {
		pal = append(pal, entries[i].c)
	}
	if len(pal) == 0 {
		pal = append(pal, color.NRGBA{A: 0xff})
	}

	q := &quantizer{palette: pal, transparent: transparent, index: make(map[color.NRGBA]uint8, len(pal))}
	for i, c := range pal {
		if _, ok := q.index[c.(color.NRGBA)]; !ok {
			q.index[c.(color.NRGBA)] = uint8(i)
		}
	}
	return q
}

// paletted converts frame to a new paletted image. Colors missing from the
// palette map to the nearest entry.
func (q *quantizer) paletted(frame image.Image) *image.Paletted {
	b := frame.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), q.palette)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := (y - b.Min.Y) * out.Stride
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(frame.At(x, y)).(color.NRGBA)
			if c.A == 0 && q.transparent {
				out.Pix[row+x-b.Min.X] = 0
				continue
			}
			idx, ok := q.index[c]
			if !ok {
				idx = uint8(q.palette.Index(c))
				q.index[c] = idx
			}
			out.Pix[row+x-b.Min.X] = idx
		}
	}
	return out
}

func packNRGBA(c color.NRGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}
