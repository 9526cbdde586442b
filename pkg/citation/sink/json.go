package sink

import (
	"encoding/json"

	"github.com/matzehuels/citation/pkg/citation"
	"github.com/matzehuels/citation/pkg/citation/animate"
	"github.com/matzehuels/citation/pkg/citation/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	timeline bool
	indent   bool
	notices  []citation.Notice
}

// WithJSONTimeline includes every reveal offset, not just the frame count.
func WithJSONTimeline() JSONOption { return func(r *jsonRenderer) { r.timeline = true } }

// WithJSONIndent pretty-prints the output.
func WithJSONIndent() JSONOption { return func(r *jsonRenderer) { r.indent = true } }

// WithJSONNotices records the adjustments made while normalizing the config.
func WithJSONNotices(notices []citation.Notice) JSONOption {
	return func(r *jsonRenderer) { r.notices = notices }
}

type jsonOutput struct {
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Hash     string          `json:"hash"`
	Card     citation.Config `json:"card"`
	Geometry layout.Profile  `json:"geometry"`
	Frames   int             `json:"frames"`
	Timeline []int           `json:"timeline,omitempty"`
	Notices  []jsonNotice    `json:"notices,omitempty"`
}

type jsonNotice struct {
	Field string `json:"field"`
	From  int    `json:"from"`
	To    int    `json:"to"`
}

// RenderJSON exports cfg and its geometry. cfg should be the normalized,
// possibly resized config that was rendered.
func RenderJSON(cfg citation.Config, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	p := layout.Compute(cfg)
	timeline := animate.TimelineFor(p, cfg.Height)
	out := jsonOutput{
		Width:    cfg.Width,
		Height:   cfg.Height,
		Hash:     citation.Hash(cfg),
		Card:     cfg,
		Geometry: p,
		Frames:   len(timeline),
	}
	if r.timeline {
		out.Timeline = timeline
	}
	for _, n := range r.notices {
		out.Notices = append(out.Notices, jsonNotice{Field: n.Field, From: n.From, To: n.To})
	}

	if r.indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}
