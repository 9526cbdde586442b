package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/citation/pkg/cache"
	"github.com/matzehuels/citation/pkg/errors"
	"github.com/matzehuels/citation/pkg/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	s := &server{
		runner: pipeline.NewRunner(fc, cache.NewScopedKeyer(nil, "server:"), logger),
		logger: logger,
	}
	srv := httptest.NewServer(s.routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeHealth(t *testing.T) {
	srv := newTestServer(t)
	resp := get(t, srv, "/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Error("missing request ID")
	}
}

func TestServeCitationPNG(t *testing.T) {
	srv := newTestServer(t)
	path := "/v1/citation.png?title=DENIED&width=400"

	first := get(t, srv, path, nil)
	if first.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", first.StatusCode)
	}
	if ct := first.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Content-Type = %q", ct)
	}
	if got := first.Header.Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}
	etag := first.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	second := get(t, srv, path, http.Header{requestIDHeader: {"abc"}})
	if got := second.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
	if got := second.Header.Get(requestIDHeader); got != "abc" {
		t.Errorf("request ID = %q, want the caller's", got)
	}
	if second.Header.Get("ETag") != etag {
		t.Error("ETag changed for identical output")
	}

	cached := get(t, srv, path, http.Header{"If-None-Match": {etag}})
	if cached.StatusCode != http.StatusNotModified {
		t.Errorf("conditional status = %d, want 304", cached.StatusCode)
	}
}

func TestServeErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		path string
		code errors.Code
	}{
		{"/v1/citation.svg", errors.ErrCodeInvalidFormat},
		{"/v1/citation.png?width=abc", errors.ErrCodeInvalidDimension},
		{"/v1/citation.png?width=20", errors.ErrCodeInvalidDimension},
		{"/v1/citation.png?width=100000&height=100000", errors.ErrCodeInvalidDimension},
		{"/v1/citation.gif?height=8194", errors.ErrCodeInvalidDimension},
		{"/v1/citation.json?font_size=5000", errors.ErrCodeInvalidDimension},
		{"/v1/citation.png?barcode=12", errors.ErrCodeInvalidBarcode},
		{"/v1/citation.png?background=pink", errors.ErrCodeInvalidColor},
		{"/v1/citation.gif?delay=-5", errors.ErrCodeInvalidInput},
		{"/v1/citation.json?resize=maybe", errors.ErrCodeInvalidInput},
		{"/v1/citation.gif?loop=-2", errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, srv, tt.path, nil)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error != string(tt.code) {
				t.Errorf("error = %q, want %q", body.Error, tt.code)
			}
		})
	}
}

func TestParseQuery(t *testing.T) {
	q := url.Values{
		"width":    {"400"},
		"reason":   {`a\nb`},
		"barcode":  {"101"},
		"resize":   {"true"},
		"compact":  {"1"},
		"delay":    {"20"},
		"loop":     {"-1"},
		"offsets":  {"0,4"},
		"timeline": {"true"},
	}
	opts, err := parseQuery(q)
	if err != nil {
		t.Fatal(err)
	}
	cfg := opts.Config
	if cfg.Width != 400 || cfg.Reason != "a\nb" || len(cfg.Barcode) != 3 || !cfg.ResizeReason {
		t.Errorf("config = %+v", cfg)
	}
	if !opts.Compact || !opts.IncludeTimeline || opts.FrameDelay != 20*time.Millisecond || opts.LoopCount != -1 {
		t.Errorf("options = %+v", opts)
	}
	if len(opts.Offsets) != 2 {
		t.Errorf("offsets = %v", opts.Offsets)
	}
}

func TestParseQueryErrors(t *testing.T) {
	tests := []struct {
		name string
		q    url.Values
		code errors.Code
	}{
		{"non-numeric width", url.Values{"width": {"wide"}}, errors.ErrCodeInvalidDimension},
		{"overflowing width", url.Values{"width": {"99999999999999999999999"}}, errors.ErrCodeInvalidDimension},
		{"overflowing height", url.Values{"height": {"-99999999999999999999999"}}, errors.ErrCodeInvalidDimension},
		{"bad resize limit", url.Values{"resize_limit": {"1e3"}}, errors.ErrCodeInvalidDimension},
		{"bad bool", url.Values{"opaque": {"maybe"}}, errors.ErrCodeInvalidInput},
		{"zero delay", url.Values{"delay": {"0"}}, errors.ErrCodeInvalidInput},
		{"bad loop", url.Values{"loop": {"forever"}}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseQuery(tt.q)
			if !errors.Is(err, tt.code) {
				t.Errorf("parseQuery() error = %v, want code %s", err, tt.code)
			}
		})
	}
}
