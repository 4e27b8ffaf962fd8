package source

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher calls a function whenever a local export file changes. The parent
// directory is watched so replace-on-save editors and atomic renames are
// seen.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher creates a watcher for path.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		logger:   logger.With(slog.String("component", "source_watcher")),
	}
}

// Run blocks until ctx is done, invoking onChange once per debounced burst
// of create, write or rename events on the file.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.InfoContext(ctx, "watching source file", slog.String("path", w.path))

	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.DebugContext(ctx, "source file event",
				slog.String("op", event.Op.String()),
				slog.String("name", event.Name))
			fire = time.After(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "watcher error", slog.String("error", err.Error()))

		case <-fire:
			fire = nil
			onChange(ctx)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0
}
