package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/citation/pkg/buildinfo"
	"github.com/matzehuels/citation/pkg/cache"
	"github.com/matzehuels/citation/pkg/citation"
	"github.com/matzehuels/citation/pkg/errors"
	"github.com/matzehuels/citation/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

type serveOpts struct {
	addr          string
	redis         string
	noCache       bool
	font, logo    string
	keepLogoColor bool
}

// serveCommand creates the serve command, which renders cards over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve citation cards over HTTP",
		Long: `Serve renders cards on request. Card fields are query parameters named
like the render flags:

  GET /v1/citation.png?title=DENIED&reason=Wrong+stamp&width=400
  GET /v1/citation.gif?delay=20&compact=true&loop=-1
  GET /v1/citation.json?timeline=true

Width and height are capped at 8192 pixels. The font and logo are fixed
when the server starts.`,
		Example: `  citation serve --addr :8080
  citation serve --redis redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "Redis URL for a shared artifact cache (default: file cache)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.font, "font", "", "font file or URL")
	cmd.Flags().StringVar(&opts.logo, "logo", "", "logo image file or URL")
	cmd.Flags().BoolVar(&opts.keepLogoColor, "keep-logo-color", false, "draw the logo in its own colors")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	store, err := newRemoteCache(ctx, opts.redis, opts.noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, "server:"), logger)
	defer runner.Close()

	s := &server{
		runner: runner,
		logger: logger,
		assets: citation.Assets{Font: opts.font, Logo: opts.logo, KeepLogoColor: opts.keepLogoColor},
	}
	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Debug("listening", "addr", opts.addr, "version", buildinfo.Version)
	printInfo("Serving citations on %s", StyleLink.Render(listenURL(opts.addr)))

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// listenURL turns a listen address like ":8080" into a clickable URL.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

// =============================================================================
// HTTP Handlers
// =============================================================================

type server struct {
	runner *pipeline.Runner
	logger *log.Logger
	assets citation.Assets
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/v1/citation.{format}", s.citation)
	return r
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *server) citation(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := parseQuery(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Format = format
	opts.FontPath = s.assets.Font
	opts.LogoPath = s.assets.Logo
	opts.KeepLogoColor = s.assets.KeepLogoColor
	opts.Logger = s.logger.With("request_id", w.Header().Get(requestIDHeader))

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	etag := `"` + cache.Hash(result.Data)[:32] + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("X-Cache", cacheStatus(result.CacheHit))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	_, _ = w.Write(result.Data)
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// parseQuery builds pipeline options from query parameters. Absent
// parameters keep their defaults.
func parseQuery(q url.Values) (pipeline.Options, error) {
	cfg := citation.Default()
	opts := pipeline.Options{}

	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &cfg.Width},
		{"height", &cfg.Height},
		{"font_size", &cfg.FontSize},
		{"resize_limit", &cfg.ResizeLimit},
	}
	for _, v := range ints {
		if raw := q.Get(v.name); raw != "" {
			n, err := errors.ParseDimension(v.name, raw)
			if err != nil {
				return opts, err
			}
			*v.dst = n
		}
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"title", &cfg.Title},
		{"reason", &cfg.Reason},
		{"penalty", &cfg.Penalty},
		{"background", &cfg.Background},
		{"foreground", &cfg.Foreground},
		{"text", &cfg.Text},
	}
	for _, v := range strs {
		if q.Has(v.name) {
			*v.dst = q.Get(v.name)
		}
	}
	cfg.Reason = unescapeNewlines(cfg.Reason)

	if raw := q.Get("barcode"); raw != "" {
		bits, err := citation.ParseBarcode(raw)
		if err != nil {
			return opts, err
		}
		cfg.Barcode = bits
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"resize", &cfg.ResizeReason},
		{"compact", &opts.Compact},
		{"opaque", &opts.Opaque},
		{"timeline", &opts.IncludeTimeline},
	}
	for _, v := range bools {
		if raw := q.Get(v.name); raw != "" {
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s %q is not a boolean", v.name, raw)
			}
			*v.dst = b
		}
	}

	if raw := q.Get("delay"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return opts, errors.New(errors.ErrCodeInvalidInput, "delay %q must be a positive number of milliseconds", raw)
		}
		opts.FrameDelay = time.Duration(ms) * time.Millisecond
	}
	if raw := q.Get("loop"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "loop %q is not a number", raw)
		}
		opts.LoopCount = n
	}

	offsets, err := parseOffsets(q.Get("offsets"))
	if err != nil {
		return opts, err
	}
	opts.Offsets = offsets
	opts.Config = cfg
	return opts, nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError maps validation errors to 400 and everything else to 500.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := errors.GetCode(err)
	if errors.IsValidation(err) {
		status = http.StatusBadRequest
	} else {
		s.logger.Error("render failed", "path", r.URL.Path, "request_id", w.Header().Get(requestIDHeader), "error", err)
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorResponse{Error: string(code), Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Middleware
// =============================================================================

const requestIDHeader = "X-Request-ID"

// requestID keeps a caller-supplied X-Request-ID or assigns a new UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", w.Header().Get(requestIDHeader),
		)
	})
}
