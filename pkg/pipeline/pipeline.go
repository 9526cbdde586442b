// Package pipeline runs the complete card pipeline shared by the CLI and the
// HTTP server.
//
// # Architecture
//
// A run has four stages:
//
//  1. Prepare: normalize the configuration and load the font and logo
//  2. Resize: optionally grow the card until the text fits
//  3. Render: draw the card
//  4. Encode: produce PNG, GIF, PDF or JSON bytes
//
// Encoded artifacts are cached under a key built from the final
// configuration, the format and the identity of the assets, so a repeated
// request skips stages 3 and 4.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Config: cfg,
//	    Format: pipeline.FormatGIF,
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("citation.gif", result.Data, 0o644)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/citation/pkg/cache"
	"github.com/matzehuels/citation/pkg/citation"
	"github.com/matzehuels/citation/pkg/citation/layout"
	"github.com/matzehuels/citation/pkg/citation/sink"
	"github.com/matzehuels/citation/pkg/errors"
	"github.com/matzehuels/citation/pkg/render/canvas"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// DefaultFormat is used when Options.Format is empty.
const DefaultFormat = FormatPNG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatGIF:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

var contentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatGIF:  "image/gif",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, gif, pdf, json)", format)
	}
	return nil
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	return contentTypes[format]
}

// Options contains all inputs of one pipeline run.
type Options struct {
	Config citation.Config `json:"card"`
	Format string          `json:"format,omitempty"`

	// FontPath and LogoPath are local paths or http(s) URLs. Empty selects
	// the built-in font and logo.
	FontPath string `json:"font,omitempty"`
	LogoPath string `json:"logo,omitempty"`
	// KeepLogoColor draws the logo as-is instead of tinting it with the
	// foreground color.
	KeepLogoColor bool `json:"keep_logo_color,omitempty"`

	// Offsets overrides the computed reveal timeline for GIF output.
	Offsets    []int         `json:"offsets,omitempty"`
	FrameDelay time.Duration `json:"frame_delay,omitempty"`
	Compact    bool          `json:"compact,omitempty"`
	Opaque     bool          `json:"opaque,omitempty"`
	// LoopCount is the GIF loop count: 0 loops forever, -1 plays once.
	LoopCount  int           `json:"loop_count,omitempty"`

	// IncludeTimeline adds the per-frame offsets to JSON output.
	IncludeTimeline bool `json:"timeline,omitempty"`

	MaxResizeIterations int  `json:"max_resize_iterations,omitempty"`
	Refresh             bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger           `json:"-"`
	Progress func(done, total int) `json:"-"`
	Trace    func(canvas.Op)       `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Data        []byte
	Format      string
	ContentType string

	// Config is the configuration that was rendered, after normalization
	// and resizing.
	Config  citation.Config
	Profile layout.Profile
	Notices []citation.Notice

	// Resize is set when the reason was auto-resized.
	Resize *ResizeResult

	// Frames is the number of animation offsets, for GIF output.
	Frames   int
	CacheHit bool
	Stats    Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PrepareTime time.Duration
	ResizeTime  time.Duration
	RenderTime  time.Duration
	EncodeTime  time.Duration
}

// ValidateAndSetDefaults checks the options that do not depend on the card
// and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.FrameDelay < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frame delay must not be negative, got %s", o.FrameDelay)
	}
	if o.FrameDelay == 0 {
		o.FrameDelay = sink.DefaultFrameDelay
	}
	if o.LoopCount < -1 {
		return errors.New(errors.ErrCodeInvalidInput, "loop count must be -1 or more, got %d", o.LoopCount)
	}
	if o.MaxResizeIterations < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max resize iterations must not be negative, got %d", o.MaxResizeIterations)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for the encoded artifact.
func (o *Options) ArtifactKeyOpts(fontDigest, logoDigest string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:     o.Format,
		FontDigest: fontDigest,
		FontSize:   o.Config.FontSize,
		LogoDigest: logoDigest,
		Tint:       !o.KeepLogoColor,
	}
	switch o.Format {
	case FormatGIF:
		if o.Offsets != nil {
			opts.OffsetsHash = hashOffsets(o.Offsets)
		}
		opts.DelayMs = int(o.FrameDelay / time.Millisecond)
		opts.Compact = o.Compact
		opts.Opaque = o.Opaque
		opts.LoopCount = o.LoopCount
	case FormatJSON:
		// JSON output depends on the font only through resizing.
		opts.LogoDigest, opts.Tint = "", false
		if !o.Config.ResizeReason {
			opts.FontDigest = ""
		}
		opts.Timeline = o.IncludeTimeline
	}
	return opts
}
