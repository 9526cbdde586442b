package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"image/gif"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/citation/pkg/cache"
	"github.com/matzehuels/citation/pkg/citation"
	"github.com/matzehuels/citation/pkg/errors"
	"github.com/matzehuels/citation/pkg/observability"
	"github.com/matzehuels/citation/pkg/render/canvas"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.data[key]
	return d, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	m.sets++
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"gif", false},
		{"pdf", false},
		{"json", false},
		{"svg", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Config: citation.Default()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Format != FormatPNG {
		t.Errorf("Format = %q, want png", opts.Format)
	}
	if opts.FrameDelay != 10*time.Millisecond {
		t.Errorf("FrameDelay = %v", opts.FrameDelay)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	bad := Options{FrameDelay: -time.Second}
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative delay error = %v", err)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	gifOpts := Options{Config: citation.Default(), Format: FormatGIF, FrameDelay: 20 * time.Millisecond, Offsets: []int{0, 2}}
	k := gifOpts.ArtifactKeyOpts("font", "logo")
	if k.DelayMs != 20 || k.OffsetsHash == "" || k.FontDigest != "font" {
		t.Errorf("gif key opts = %+v", k)
	}

	looped := gifOpts
	looped.LoopCount = 3
	if looped.ArtifactKeyOpts("font", "logo") == k {
		t.Error("loop count does not change the gif key")
	}

	jsonOpts := Options{Config: citation.Default(), Format: FormatJSON}
	k = jsonOpts.ArtifactKeyOpts("font", "logo")
	if k.FontDigest != "" || k.LogoDigest != "" {
		t.Errorf("json key opts depend on assets: %+v", k)
	}

	jsonOpts.Config.ResizeReason = true
	if k = jsonOpts.ArtifactKeyOpts("font", "logo"); k.FontDigest != "font" {
		t.Errorf("resized json key opts ignore the font: %+v", k)
	}
}

func TestExecutePNG(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)

	res, err := r.Execute(ctx, Options{Config: citation.Default()})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !bytes.HasPrefix(res.Data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
	if res.ContentType != "image/png" {
		t.Errorf("ContentType = %q", res.ContentType)
	}
	if res.CacheHit {
		t.Error("first run should miss the cache")
	}
	if res.Profile.TitleMaxWidth != 278 {
		t.Errorf("Profile.TitleMaxWidth = %d", res.Profile.TitleMaxWidth)
	}

	again, err := r.Execute(ctx, Options{Config: citation.Default()})
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheHit || !bytes.Equal(again.Data, res.Data) {
		t.Error("second run should be served from cache")
	}

	refreshed, err := r.Execute(ctx, Options{Config: citation.Default(), Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("Refresh should bypass the cache")
	}
	if mc.sets != 2 {
		t.Errorf("cache writes = %d, want 2", mc.sets)
	}
}

func TestExecuteNormalizes(t *testing.T) {
	cfg := citation.Default().WithWidth(365)
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Config: cfg, Format: FormatJSON})
	if err != nil {
		t.Fatal(err)
	}
	if res.Config.Width != 366 {
		t.Errorf("Width = %d, want 366", res.Config.Width)
	}
	if len(res.Notices) != 1 || res.Notices[0].Field != "width" {
		t.Errorf("Notices = %v", res.Notices)
	}

	var out struct {
		Width   int `json:"width"`
		Frames  int `json:"frames"`
		Notices []struct {
			Field string `json:"field"`
		} `json:"notices"`
	}
	if err := json.Unmarshal(res.Data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Width != 366 || out.Frames != 335 || len(out.Notices) != 1 {
		t.Errorf("json = %+v", out)
	}
}

func TestExecuteErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.ttf")
	small := citation.Default().WithWidth(50)

	tests := []struct {
		name string
		opts Options
		want errors.Code
	}{
		{"bad format", Options{Config: citation.Default(), Format: "bmp"}, errors.ErrCodeInvalidFormat},
		{"too narrow", Options{Config: small}, errors.ErrCodeInvalidDimension},
		{"missing font", Options{Config: citation.Default(), FontPath: missing}, errors.ErrCodeAssetNotFound},
		{"missing logo", Options{Config: citation.Default(), LogoPath: missing}, errors.ErrCodeAssetNotFound},
		{"offset outside card", Options{Config: citation.Default(), Format: FormatGIF, Offsets: []int{0, 200}}, errors.ErrCodeInvalidInput},
		{"empty offsets", Options{Config: citation.Default(), Format: FormatGIF, Offsets: []int{}}, errors.ErrCodeInvalidInput},
		{"bad loop count", Options{Config: citation.Default(), Format: FormatGIF, LoopCount: -2}, errors.ErrCodeInvalidInput},
		{"oversize", Options{Config: citation.Default().WithWidth(citation.MaxWidth + 2)}, errors.ErrCodeInvalidDimension},
	}

	r := NewRunner(nil, nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), tt.opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("Execute() error = %v, want %s", err, tt.want)
			}
		})
	}
}

func TestExecutePDF(t *testing.T) {
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Config: citation.Default(),
		Format: FormatPDF,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !bytes.HasPrefix(res.Data, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
	if res.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q", res.ContentType)
	}
}

func TestExecuteGIF(t *testing.T) {
	var progress []int
	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Config:   citation.Default(),
		Format:   FormatGIF,
		Offsets:   []int{0, 80, 160},
		LoopCount: -1,
		Progress:  func(done, total int) { progress = append(progress, done) },
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Frames != 3 {
		t.Errorf("Frames = %d, want 3", res.Frames)
	}

	g, err := gif.DecodeAll(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 3 {
		t.Errorf("decoded %d frames, want 3", len(g.Image))
	}
	if g.LoopCount != -1 {
		t.Errorf("LoopCount = %d, want -1 (play once)", g.LoopCount)
	}
	if len(progress) != 3 || progress[2] != 3 {
		t.Errorf("progress = %v", progress)
	}
}

func TestExecuteResize(t *testing.T) {
	cfg := citation.Default()
	cfg.Title = "A VERY LONG CITATION TITLE THAT DOES NOT FIT"
	cfg.ResizeReason = true

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Config: cfg, Format: FormatJSON})
	if err != nil {
		t.Fatal(err)
	}
	if res.Resize == nil {
		t.Fatal("Resize result missing")
	}
	if !res.Resize.Converged {
		t.Error("resize did not converge")
	}
	if res.Config.Width <= citation.DefaultWidth || res.Config.Width%2 != 0 {
		t.Errorf("Width = %d, want an even width above %d", res.Config.Width, citation.DefaultWidth)
	}
}

func TestExecuteTrace(t *testing.T) {
	var texts int
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Config: citation.Default(),
		Trace: func(op canvas.Op) {
			if op.Kind == canvas.OpText {
				texts++
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	// title, two reason lines and the penalty
	if texts != 4 {
		t.Errorf("text ops = %d, want 4", texts)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	starts []string
	frames int
}

func (h *recordingHooks) OnRenderStart(_ context.Context, format string) {
	h.starts = append(h.starts, format)
}

func (h *recordingHooks) OnFrameEncoded(context.Context, int, int) { h.frames++ }

func TestExecuteHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	defer observability.Reset()

	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{
		Config:  citation.Default(),
		Format:  FormatGIF,
		Offsets: []int{0, 160},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(h.starts) != 1 || h.starts[0] != FormatGIF {
		t.Errorf("render starts = %v", h.starts)
	}
	if h.frames != 2 {
		t.Errorf("frame events = %d, want 2", h.frames)
	}
}
