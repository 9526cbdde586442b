// Package animate builds the slide-in reveal of a citation card.
//
// A timeline is a list of offsets, one per frame. An offset is how many
// pixels of the card are visible, measured from the top. The card slides up
// in 2px steps, rests just past the top separator and again just past the
// bottom separator, stays fully visible for a while, slides back down and
// rests hidden before the loop restarts.
package animate

import (
	"github.com/matzehuels/citation/pkg/citation"
	"github.com/matzehuels/citation/pkg/citation/layout"
)

// Timeline shape.
const (
	Step        = 2
	PauseFrames = 14
	HoldFrames  = 100
	RestFrames  = 50
)

// Timeline returns the reveal offsets for cfg.
func Timeline(cfg citation.Config) []int {
	return TimelineFor(layout.Compute(cfg), cfg.Height)
}

// TimelineFor returns the reveal offsets for a card of the given height and
// geometry.
//
// The first climb starts at the top of the side borders and stops short of
// the first rest. Later climbs start one step past the previous rest and
// end on the next one, so their last frame already shows the plateau. The
// runs of equal offsets are therefore uneven: the first rest lasts
// PauseFrames frames, the second PauseFrames+1, the fully visible card
// HoldFrames+1, and the hidden card at the end RestFrames+1 because the
// slide down also lands on zero.
func TimelineFor(p layout.Profile, height int) []int {
	start := p.SideDotsFromTop
	first, second, full := p.RevealStops(height)

	out := make([]int, 0, Length(p, height))
	for y := start; y < first; y += Step {
		out = append(out, y)
	}
	out = hold(out, first, PauseFrames)
	out = climb(out, first, second)
	out = hold(out, second, PauseFrames)
	out = climb(out, second, full)
	out = hold(out, full, HoldFrames)
	for y := full - Step; y >= 0; y -= Step {
		out = append(out, y)
	}
	return hold(out, 0, RestFrames)
}

// Length is the number of frames TimelineFor produces when the offsets
// involved share the parity of the step.
func Length(p layout.Profile, height int) int {
	start := p.SideDotsFromTop
	first, second, full := p.RevealStops(height)
	n := (first-start)/Step + PauseFrames +
		(second-first)/Step + PauseFrames +
		(full-second)/Step + HoldFrames +
		full/Step + RestFrames
	return max(n, 0)
}

// climb appends the offsets after from up to and including to. If to is
// not reachable in whole steps the climb stops below it.
func climb(out []int, from, to int) []int {
	for y := from + Step; y <= to; y += Step {
		out = append(out, y)
	}
	return out
}

func hold(out []int, y, frames int) []int {
	for range frames {
		out = append(out, y)
	}
	return out
}
