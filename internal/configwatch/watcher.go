package configwatch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"turtile/internal/config"
	"turtile/internal/logging"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// Applier receives successfully reloaded configurations.
type Applier interface {
	ApplyConfig(cfg *config.Config) []string
}

// Watcher monitors one config file via fsnotify.
type Watcher struct {
	path     string
	applier  Applier
	logger   *slog.Logger
	delay    time.Duration
	onReload func(*config.Config, []string)

	mu       sync.Mutex
	debounce *time.Timer
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithReloadHook registers fn to run after each applied reload.
func WithReloadHook(fn func(cfg *config.Config, added []string)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// New builds a watcher for path.
func New(path string, applier Applier, logger *slog.Logger, opts ...Option) *Watcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	w := &Watcher{
		path:    filepath.Clean(path),
		applier: applier,
		logger:  logging.NewComponentLogger(logger, "configwatch"),
		delay:   DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the directory holding the config file until ctx is done. The
// directory is watched rather than the file so editors that replace the file
// by rename are still observed.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer watcher.Close()
	defer w.stopTimer()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watching config", logging.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.WarnWithContext(w.logger, "config watcher error", "config_watch_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "config changes may be missed until restart"))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, func() {
		if ctx.Err() != nil {
			return
		}
		w.reload()
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}

func (w *Watcher) reload() {
	cfg, err := config.Reload(w.path)
	if err != nil {
		logging.WarnWithContext(w.logger, "config reload rejected", "config_reload_failed",
			logging.String("path", w.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run turtile config validate to see the problem"),
			logging.String(logging.FieldImpact, "the previous configuration stays in effect"))
		return
	}
	added := w.applier.ApplyConfig(cfg)
	w.logger.Info("config reloaded",
		logging.String(logging.FieldEventType, "config_reloaded"),
		logging.String("path", w.path),
		logging.Int("workspaces_added", len(added)),
	)
	if w.onReload != nil {
		w.onReload(cfg, added)
	}
}
