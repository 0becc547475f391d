// Package watch reloads a hierarchy file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/san-kum/orrery/internal/hierarchy"
	"github.com/san-kum/orrery/internal/logging"
)

// DefaultDebounce batches the burst of events editors emit on save.
const DefaultDebounce = 150 * time.Millisecond

// Handler receives each successfully reloaded scene.
type Handler func(*hierarchy.Scene)

// ErrorHandler receives reload failures. The previous scene stays current.
type ErrorHandler func(error)

// Watcher watches the directory holding a .sol file so that atomic
// rename-on-save by editors is seen as well as in-place writes.
type Watcher struct {
	path     string
	dir      string
	debounce time.Duration
	load     func(string) (*hierarchy.Scene, error)
	log      *zap.Logger
	fsw      *fsnotify.Watcher
}

// New creates a watcher for path. Call Run to start receiving scenes.
func New(path string, log *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		path:     abs,
		dir:      dir,
		debounce: DefaultDebounce,
		load:     hierarchy.Load,
		log:      logging.OrNop(log),
		fsw:      fsw,
	}, nil
}

// SetDebounce changes the quiet period between the last event and the reload.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Run delivers reloaded scenes until ctx is done, then closes the watcher.
// Each scene is fully parsed before it is handed over.
func (w *Watcher) Run(ctx context.Context, onScene Handler, onError ErrorHandler) error {
	defer w.fsw.Close()

	w.log.Debug("watching hierarchy file", zap.String("path", w.path))

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("hierarchy file event", zap.String("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
			if onError != nil {
				onError(err)
			}

		case <-timer.C:
			scene, err := w.load(w.path)
			if err != nil {
				w.log.Warn("reload failed", zap.String("path", w.path), zap.Error(err))
				if onError != nil {
					onError(err)
				}
				continue
			}
			w.log.Info("scene reloaded", zap.String("path", w.path), zap.Int("bodies", scene.Tree.Len()))
			if onScene != nil {
				onScene(scene)
			}
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
