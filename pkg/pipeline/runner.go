package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/citation/pkg/cache"
	"github.com/matzehuels/citation/pkg/citation"
	"github.com/matzehuels/citation/pkg/citation/card"
	"github.com/matzehuels/citation/pkg/citation/layout"
	"github.com/matzehuels/citation/pkg/citation/resize"
	"github.com/matzehuels/citation/pkg/observability"
	"github.com/matzehuels/citation/pkg/textfit"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state. Multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Execute runs normalize → resize → render → encode with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{Format: opts.Format, ContentType: ContentType(opts.Format)}

	// Stage 1: Prepare
	start := time.Now()
	p, err := r.prepare(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer p.close()
	result.Notices = p.notices
	result.Stats.PrepareTime = time.Since(start)

	// Stage 2: Resize
	if p.cfg.ResizeReason {
		res := r.Resize(ctx, p.cfg, p.font.Measurer(), opts)
		result.Resize = &res
		result.Stats.ResizeTime = res.Duration
		p.cfg = res.Config
	}
	result.Config = p.cfg
	result.Profile = layout.Compute(p.cfg)

	var offsets []int
	if opts.Format == FormatGIF {
		if offsets, err = Offsets(p.cfg, opts.Offsets); err != nil {
			return nil, err
		}
		result.Frames = len(offsets)
	}

	opts.Config = p.cfg
	key := r.Keyer.ArtifactKey(citation.Hash(p.cfg), opts.ArtifactKeyOpts(fontDigest(p), p.logoDigest))
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, opts.Format)
			opts.Logger.Debug("artifact from cache", "format", opts.Format, "bytes", len(data))
			result.Data = data
			result.CacheHit = true
			return result, nil
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, opts.Format)
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	data, err := r.render(ctx, p, offsets, opts, &result.Stats)
	hooks.OnRenderComplete(ctx, opts.Format, len(data), result.Stats.RenderTime+result.Stats.EncodeTime, err)
	if err != nil {
		return nil, err
	}
	result.Data = data

	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		opts.Logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, opts.Format, len(data))
	}

	opts.Logger.Info("rendered citation",
		"format", opts.Format,
		"size", fmt.Sprintf("%dx%d", p.cfg.Width, p.cfg.Height),
		"bytes", len(data),
		"duration", result.Stats.RenderTime+result.Stats.EncodeTime)

	return result, nil
}

func (r *Runner) render(ctx context.Context, p *prepared, offsets []int, opts Options, stats *Stats) ([]byte, error) {
	var c *card.Card
	if opts.Format != FormatJSON {
		start := time.Now()
		var err error
		if c, err = r.renderCard(p, opts); err != nil {
			return nil, fmt.Errorf("render card: %w", err)
		}
		stats.RenderTime = time.Since(start)
	}

	start := time.Now()
	data, err := r.encode(ctx, c, p, offsets, opts)
	stats.EncodeTime = time.Since(start)
	return data, err
}

// ResizeResult is a resize outcome with its duration.
type ResizeResult struct {
	resize.Result
	Duration time.Duration
}

// Resize grows cfg until its text fits m and reports the outcome to the
// pipeline hooks.
func (r *Runner) Resize(ctx context.Context, cfg citation.Config, m textfit.Measurer, opts Options) ResizeResult {
	r.applyLogger(&opts)
	start := time.Now()
	res := resize.Fit(cfg, m, resize.Options{MaxIterations: opts.MaxResizeIterations})
	d := time.Since(start)
	observability.Pipeline().OnResizeComplete(ctx, res.Iterations, res.Converged, d)

	logger := opts.Logger
	switch {
	case !res.Converged:
		logger.Warn("resize stopped at iteration cap; text may overflow",
			"iterations", res.Iterations,
			"width", res.Config.Width,
			"height", res.Config.Height)
	case res.Clamped:
		logger.Warn("reason does not fit within resize limit",
			"limit", cfg.ResizeLimit,
			"height", res.Config.Height)
	case res.Config.Width != cfg.Width || res.Config.Height != cfg.Height:
		logger.Info("resized card to fit text",
			"from", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
			"to", fmt.Sprintf("%dx%d", res.Config.Width, res.Config.Height),
			"iterations", res.Iterations)
	}
	return ResizeResult{Result: res, Duration: d}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func fontDigest(p *prepared) string {
	if p.font == nil {
		return ""
	}
	return p.font.Digest
}
