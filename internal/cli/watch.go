package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/matzehuels/citation/pkg/assets"
	"github.com/matzehuels/citation/pkg/pipeline"
)

// debounce collapses bursts of events from editors that write a file in
// several steps.
const debounce = 150 * time.Millisecond

// fileWatcher reports changes to a fixed set of files. It watches their
// directories so files replaced by rename are still seen.
type fileWatcher struct {
	fsw    *fsnotify.Watcher
	files  map[string]bool
	events chan struct{}
	errs   chan error
}

func newFileWatcher(paths []string) (*fileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &fileWatcher{
		fsw:    fsw,
		files:  make(map[string]bool),
		events: make(chan struct{}, 1),
		errs:   make(chan error, 1),
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	go w.loop()
	return w, nil
}

func (w *fileWatcher) loop() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err == nil && w.files[abs] {
				select {
				case w.events <- struct{}{}:
				default:
				}
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			select {
			case w.errs <- err:
			default:
			}
		}
	}
}

func (w *fileWatcher) Close() error {
	return w.fsw.Close()
}

// watchedFiles lists the local files a render depends on.
func watchedFiles(opts *renderOpts) []string {
	var files []string
	for _, p := range []string{opts.card.config, opts.card.font, opts.card.logo} {
		if p != "" && !assets.IsURL(p) {
			files = append(files, p)
		}
	}
	return files
}

// watchAndRender re-renders whenever a watched file changes, until ctx is
// cancelled. Render errors are logged and do not stop the watch.
func (c *CLI) watchAndRender(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	files := watchedFiles(opts)
	if len(files) == 0 {
		logger.Warn("--watch needs --config, --font or --logo pointing at a local file")
		return nil
	}

	w, err := newFileWatcher(files)
	if err != nil {
		return err
	}
	defer w.Close()
	logger.Info("Watching for changes", "files", files)

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-w.errs:
			logger.Warn("watch error", "error", err)
		case <-w.events:
			timer = time.After(debounce)
		case <-timer:
			timer = nil
			if err := c.renderOnce(ctx, cmd, runner, opts); err != nil {
				logger.Error("render failed", "error", err)
			}
		}
	}
}
