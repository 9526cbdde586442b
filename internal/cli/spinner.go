package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/citation/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a one-line status for a render in progress. Its label
// follows the pipeline stages: it implements observability.PipelineHooks, so
// once attached the runner moves it from preparing through resizing and
// rendering to encoding.
type Spinner struct {
	observability.NoopPipelineHooks

	out    io.Writer
	target string
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	started bool
	stopped chan struct{}
	once    sync.Once

	mu    sync.Mutex
	label string
	width int // visible width of the last line drawn
}

// newSpinner returns a spinner for rendering target that writes to out and
// stops on its own when ctx is cancelled.
func newSpinner(ctx context.Context, out io.Writer, target string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     out,
		target:  target,
		parent:  ctx,
		ctx:     spinnerCtx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		label:   "Preparing " + target,
	}
}

// attach registers s as the pipeline hooks until the returned func is called.
func (s *Spinner) attach() (detach func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(s)
	return func() { observability.SetPipelineHooks(prev) }
}

func (s *Spinner) OnResizeComplete(_ context.Context, iterations int, converged bool, _ time.Duration) {
	switch {
	case !converged:
		s.setLabel(fmt.Sprintf("Resized %s to the limit", s.target))
	case iterations > 0:
		s.setLabel(fmt.Sprintf("Resized %s in %d steps", s.target, iterations))
	}
}

func (s *Spinner) OnRenderStart(_ context.Context, format string) {
	s.setLabel(fmt.Sprintf("Rendering %s as %s", s.target, format))
}

func (s *Spinner) OnFrameEncoded(_ context.Context, done, total int) {
	s.setLabel(fmt.Sprintf("Encoding %s frame %d/%d", s.target, done, total))
}

func (s *Spinner) OnRenderComplete(_ context.Context, _ string, size int, _ time.Duration, err error) {
	if err == nil {
		s.setLabel(fmt.Sprintf("Writing %s (%s)", s.target, formatBytes(size)))
	}
}

// Label returns the current stage text.
func (s *Spinner) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

func (s *Spinner) setLabel(label string) {
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.started = true
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation and clears the line. Calling it more than once is
// safe.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started {
			<-s.stopped
		}
		s.clearLine()
	})
}

// Cancelled reports whether the spinner stopped because its parent context
// was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

func (s *Spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.label)
	w := lipgloss.Width(line)
	fmt.Fprintf(s.out, "\r%s%s", line, strings.Repeat(" ", max(s.width-w, 0)))
	s.width = max(s.width, w)
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
	s.width = 0
}
