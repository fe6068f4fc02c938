// Package watch re-runs a callback when watched files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period after the last change before the callback runs.
const DefaultDebounce = 500 * time.Millisecond

// Callback is run once on Start and again after every burst of changes.
type Callback func(ctx context.Context) error

// Watcher watches files for changes
type Watcher struct {
	Debounce time.Duration

	files    map[string]bool
	callback Callback
	watcher  *fsnotify.Watcher
	logger   zerolog.Logger
	done     chan struct{}
	stopped  sync.Once
	wg       sync.WaitGroup
}

// NewWatcher creates a watcher for files. The directories holding them are watched so that
// editors replacing a file are seen too.
func NewWatcher(files []string, callback Callback, logger zerolog.Logger) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		Debounce: DefaultDebounce,
		files:    map[string]bool{},
		callback: callback,
		watcher:  watcher,
		logger:   logger,
		done:     make(chan struct{}),
	}
	dirs := map[string]bool{}
	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
		w.files[absPath] = true
		dir := filepath.Dir(absPath)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return w, nil
}

// Start runs the callback, then watches in the background until ctx is done or Stop is called.
// Watching starts even when the first run fails; its error is returned.
func (w *Watcher) Start(ctx context.Context) error {
	err := w.callback(ctx)

	w.wg.Add(1)
	go w.loop(ctx)
	if err != nil {
		return fmt.Errorf("initial callback failed: %w", err)
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	debounceTimer := time.NewTimer(w.Debounce)
	debounceTimer.Stop()
	defer debounceTimer.Stop()
	var debounceCh <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			eventPath, err := filepath.Abs(event.Name)
			if err != nil || !w.files[eventPath] {
				continue
			}
			w.logger.Debug().Str("file", eventPath).Str("op", event.Op.String()).Msg("change detected")
			debounceTimer.Reset(w.Debounce)
			debounceCh = debounceTimer.C

		case <-debounceCh:
			debounceCh = nil
			if err := w.callback(ctx); err != nil {
				w.logger.Error().Err(err).Msg("watch callback failed")
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("watch error")

		case <-ctx.Done():
			return

		case <-w.done:
			return
		}
	}
}

// Stop stops watching and waits for a running callback to return.
func (w *Watcher) Stop() error {
	var err error
	w.stopped.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
