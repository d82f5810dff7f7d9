// Package watch notifies when a single file changes on disk.
package watch

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher monitors one file for changes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	target    string
	debounce  time.Duration
	logger    *slog.Logger
	events    chan struct{}
	stop      chan struct{}
	mu        sync.Mutex
	stopped   bool
}

// New creates a watcher for path. The parent directory is watched so
// editors that save by rename keep triggering events.
func New(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		target:    abs,
		debounce:  debounce,
		logger:    logger,
		events:    make(chan struct{}, 1),
		stop:      make(chan struct{}),
	}

	go w.run()

	return w, nil
}

// Events returns the channel that receives change notifications.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	w.stopped = true

	close(w.stop)
	w.fsWatcher.Close()
}

// run processes file system events.
func (w *Watcher) run() {
	var debounceTimer *time.Timer

	for {
		select {
		case <-w.stop:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			// Debounce rapid events
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				select {
				case w.events <- struct{}{}:
				default:
					// Channel full, skip
				}
			})

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "path", w.target, "err", err)
		}
	}
}
