// Package resize grows a card until its text fits.
//
// [Fit] runs three loops in order. The first widens the canvas until the
// title fits the title box, the second does the same for the penalty, and
// the third makes the canvas taller until the wrapped reason fits the reason
// box. Every step produces a new config and recomputes its geometry, because
// the boxes grow with the canvas.
//
// Growth per step is a tenth of the remaining overflow, at least two pixels,
// rounded up to an even number so dimensions stay even. Height growth stops
// at Config.ResizeLimit when that limit is above the starting height. Neither
// dimension grows past citation.MaxWidth or citation.MaxHeight; text that
// still overflows there leaves the result unconverged.
package resize

import (
	"math"

	"github.com/matzehuels/citation/pkg/citation"
	"github.com/matzehuels/citation/pkg/citation/layout"
	"github.com/matzehuels/citation/pkg/textfit"
)

// DefaultMaxIterations bounds the total number of growth steps.
const DefaultMaxIterations = 10000

// minStep is the smallest growth per iteration.
const minStep = 2

// Options tunes Fit.
type Options struct {
	// MaxIterations caps the growth steps across all three loops.
	// Zero selects DefaultMaxIterations.
	MaxIterations int
}

func (o Options) maxIterations() int {
	if o.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return o.MaxIterations
}

// Result is the outcome of Fit.
type Result struct {
	Config  citation.Config
	Profile layout.Profile

	// Iterations is the number of growth steps taken.
	Iterations int
	// Clamped is set when height growth stopped at the resize limit. The
	// reason text is then taller than its box.
	Clamped bool
	// Converged is false when the iteration cap or the maximum canvas size
	// was reached before all text fit. Config and Profile hold the last state
	// reached.
	Converged bool
}

// Fit grows cfg until title, penalty and reason fit. Width and height never
// shrink. cfg is expected to be normalized.
func Fit(cfg citation.Config, m textfit.Measurer, opts Options) Result {
	r := &run{
		cfg:    cfg.Clone(),
		budget: opts.maxIterations(),
		m:      m,
	}
	r.profile = layout.Compute(r.cfg)

	if !r.growWidth(cfg.Title) || !r.growWidth(cfg.Penalty) || !r.growHeight(cfg.Reason, cfg.ResizeLimit, cfg.Height) {
		return r.result(false)
	}
	return r.result(true)
}

type run struct {
	cfg     citation.Config
	profile layout.Profile
	m       textfit.Measurer

	iterations int
	budget     int
	clamped    bool
}

func (r *run) result(converged bool) Result {
	return Result{
		Config:     r.cfg,
		Profile:    r.profile,
		Iterations: r.iterations,
		Clamped:    r.clamped,
		Converged:  converged,
	}
}

// growWidth widens the canvas until text fits the title box. It reports
// false when the iteration budget ran out or the width hit MaxWidth.
func (r *run) growWidth(text string) bool {
	for {
		limit := float64(r.profile.TitleMaxWidth)
		if textfit.FitsWidth(text, r.m, limit) {
			return true
		}
		if r.iterations >= r.budget || r.cfg.Width >= citation.MaxWidth {
			return false
		}
		next := min(r.cfg.Width+step(r.m.Width(text)-limit), citation.MaxWidth)
		r.apply(r.cfg.WithWidth(next))
	}
}

// growHeight makes the canvas taller until the wrapped reason fits the reason
// box or the height reaches the limit.
func (r *run) growHeight(reason string, limit, original int) bool {
	if limit <= original {
		limit = 0
	}
	// Keep the clamped height even.
	limit -= limit % 2

	for {
		wrapped := textfit.Wrap(reason, r.m, float64(r.profile.ReasonMaxWidth))
		boxHeight := float64(r.profile.ReasonMaxHeight)
		if textfit.FitsHeight(wrapped, r.m, boxHeight) {
			return true
		}
		if limit > 0 && r.cfg.Height >= limit {
			r.clamped = true
			return true
		}
		if r.iterations >= r.budget || r.cfg.Height >= citation.MaxHeight {
			return false
		}
		next := min(r.cfg.Height+step(r.m.Height(wrapped)-boxHeight), citation.MaxHeight)
		if limit > 0 && next > limit {
			next = limit
		}
		r.apply(r.cfg.WithHeight(next))
	}
}

func (r *run) apply(cfg citation.Config) {
	r.cfg = cfg
	r.profile = layout.Compute(cfg)
	r.iterations++
}

// step converts an overflow in pixels into an even growth amount. The result
// never exceeds the larger canvas maximum.
func step(overflow float64) int {
	n := int(math.Ceil(min(overflow/10, float64(max(citation.MaxWidth, citation.MaxHeight)))))
	n = max(n, minStep)
	return n + n%2
}
