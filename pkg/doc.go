// Package pkg provides the libraries behind the citation card renderer.
//
// # Overview
//
// A citation is the pink slip from Papers, Please: a dotted border, a
// barcode, a title, a word-wrapped reason, a penalty line and a logo on the
// bottom separator. The pkg directory is organized into three areas:
//
//  1. [citation] - The card model, its geometry and the renderers
//  2. [pipeline] - Orchestration (normalize → resize → render → encode)
//  3. Support: [assets], [cache], [textfit], [render/canvas], [errors],
//     [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	citation.Config (TOML file, flags or query parameters)
//	         ↓
//	    [citation] Normalize (odd sizes made even)
//	         ↓
//	    [citation/resize] grow until the text fits (optional)
//	         ↓
//	    [citation/card] draw onto a [render/canvas] Context
//	         ↓
//	    [citation/sink] PNG / GIF / PDF / JSON
//
// # Quick Start
//
// Render the default card to PNG:
//
//	import (
//	    "github.com/matzehuels/citation/pkg/citation"
//	    "github.com/matzehuels/citation/pkg/citation/card"
//	    "github.com/matzehuels/citation/pkg/citation/sink"
//	)
//
//	cfg, _, _ := citation.Normalize(citation.Default())
//	c, _ := card.New(nil).Render(cfg)
//	png, _ := sink.RenderPNG(c.Image)
//
// Or let the pipeline load assets, resize and cache:
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Config: cfg,
//	    Format: pipeline.FormatGIF,
//	})
//
// # Main Packages
//
// [citation] - Card configuration, defaults, validation, TOML card files.
//
// [citation/layout] - Closed-form card geometry ([layout.Profile]).
//
// [citation/resize] - Grows width and height until title, penalty and reason
// fit their boxes.
//
// [citation/card] - The fixed draw sequence, back to front.
//
// [citation/animate] - The slide-in reveal timeline and frame cropping.
//
// [citation/sink] - Output encoders with functional options.
//
// [textfit] - Width truncation, greedy wrapping and height truncation over a
// [textfit.Measurer].
//
// [render/canvas] - The drawing surface and a recording decorator for tests
// and tracing.
//
// [assets] - Fonts (TTF, OTF, WOFF, WOFF2) and logos from disk or http(s).
//
// [cache] - Artifact cache with file, Redis and null backends.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/citation/...           # Card model and renderers
//
// [citation]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/citation
// [citation/layout]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/citation/layout
// [citation/resize]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/citation/resize
// [citation/card]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/citation/card
// [citation/animate]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/citation/animate
// [citation/sink]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/citation/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/pipeline
// [assets]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/assets
// [cache]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/cache
// [textfit]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/textfit
// [render/canvas]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/render/canvas
// [errors]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/buildinfo
// [layout.Profile]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/citation/layout#Profile
// [textfit.Measurer]: https://pkg.go.dev/github.com/matzehuels/citation/pkg/textfit#Measurer
package pkg
