// Package sink encodes rendered citation cards.
//
// # Overview
//
// A "sink" turns a rendered card into bytes. This package provides:
//
//   - PNG: the static card
//   - GIF: the looping slide-in reveal
//   - PDF: the card on a single page of the same size
//   - JSON: the card configuration and geometry, for external tools
//
// Every sink takes functional options:
//
//	png, err := sink.RenderPNG(card.Image, sink.WithCompression(png.BestCompression))
//	gif, err := sink.RenderGIF(card.Image, animate.Timeline(cfg),
//	    sink.WithFrameDelay(10*time.Millisecond),
//	    sink.WithProgress(func(done, total int) { ... }),
//	)
//
// # GIF Output
//
// [RenderGIF] composites the card once per timeline offset. The palette is
// built from the card itself: index 0 is transparent and the remaining
// entries are the most common card colors, so a flat card keeps its exact
// colors. Frames loop forever by default.
//
// Delays are stored in hundredths of a second, the unit of the GIF format,
// with a minimum of one.
package sink
