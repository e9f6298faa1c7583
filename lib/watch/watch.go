// Package watch re-runs stub synchronization when component sources
// change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/pthm/compmeta/lib/logger"
	"github.com/pthm/compmeta/lib/source"
)

// DefaultDebounce is used when no debounce period is configured.
const DefaultDebounce = 300 * time.Millisecond

// SyncFunc synchronizes one package directory.
type SyncFunc func(dir string) error

// Watcher watches package directories and calls a SyncFunc per changed
// directory once edits settle.
type Watcher struct {
	watcher  *fsnotify.Watcher
	sync     SyncFunc
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]bool
	timer   *time.Timer
}

// New watches dirs. A non-positive debounce uses DefaultDebounce.
func New(dirs []string, debounce time.Duration, fn SyncFunc) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create fsnotify watcher")
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, errors.Wrapf(err, "watch %s", dir)
		}
	}

	return &Watcher{
		watcher:  fw,
		sync:     fn,
		debounce: debounce,
		pending:  make(map[string]bool),
	}, nil
}

// Relevant reports whether a change to path can affect a stub.
func Relevant(path string) bool {
	return source.IsComponentSource(filepath.Base(path))
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Logger.Warnw("watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				logger.Logger.Warnw("cannot watch new directory", logger.FieldFile, event.Name, logger.FieldError, err)
			}
			return
		}
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if !Relevant(event.Name) {
		return
	}

	logger.Logger.Debugw("source changed", logger.FieldFile, event.Name, "op", event.Op.String())
	w.schedule(filepath.Dir(event.Name))
}

// schedule marks dir for synchronization and restarts the debounce timer.
func (w *Watcher) schedule(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[dir] = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	dirs := make([]string, 0, len(w.pending))
	for dir := range w.pending {
		dirs = append(dirs, dir)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	sort.Strings(dirs)
	for _, dir := range dirs {
		if err := w.sync(dir); err != nil {
			logger.Logger.Errorw("sync failed", logger.FieldFile, dir, logger.FieldError, err)
		}
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.watcher.Close()
}
