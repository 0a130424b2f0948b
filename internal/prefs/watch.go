// SPDX-FileCopyrightText: 2025 The Akyodex Authors
// SPDX-License-Identifier: EUPL-1.2

package prefs

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses bursts of events for one file.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes to a fixed set of files, including changes made
// by other processes. Files are replaced by rename, so the parent
// directories are watched rather than the files.
type Watcher struct {
	watcher  *fsnotify.Watcher
	targets  map[string]struct{}
	debounce time.Duration
	changes  chan string
	logger   *zap.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	done    chan struct{}
	closeMu sync.Once
	wg      sync.WaitGroup
}

// Watch starts watching paths. Call Close to stop.
func Watch(paths []string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fsw,
		targets:  make(map[string]struct{}, len(paths)),
		debounce: debounce,
		changes:  make(chan string, len(paths)+1),
		logger:   logger,
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}

	dirs := make(map[string]struct{})

	for _, path := range paths {
		clean := filepath.Clean(path)
		w.targets[clean] = struct{}{}
		dirs[filepath.Dir(clean)] = struct{}{}
	}

	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()

			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w.wg.Add(1)

	go w.loop()

	return w, nil
}

// Changes delivers the path of each changed file after the debounce delay.
// Notifications are dropped while the buffer is full.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops the watcher and pending timers.
func (w *Watcher) Close() error {
	var err error

	w.closeMu.Do(func() {
		close(w.done)
		err = w.watcher.Close()

		w.mu.Lock()
		for _, timer := range w.timers {
			timer.Stop()
		}
		w.mu.Unlock()

		w.wg.Wait()
	})

	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			name := filepath.Clean(event.Name)
			if _, watched := w.targets[name]; !watched {
				continue
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			w.schedule(name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.logger.Warn("preference watcher error", zap.Error(err))
		}
	}
}

// schedule restarts the debounce timer for name.
func (w *Watcher) schedule(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.timers[name]; exists {
		timer.Stop()
	}

	var timer *time.Timer

	timer = time.AfterFunc(w.debounce, func() {
		w.forget(name, timer)

		select {
		case <-w.done:
		case w.changes <- name:
		default:
			w.logger.Debug("change notification dropped", zap.String("path", name))
		}
	})
	w.timers[name] = timer
}

// forget drops timer from the pending set unless a newer one replaced it.
func (w *Watcher) forget(name string, timer *time.Timer) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timers[name] == timer {
		delete(w.timers, name)
	}
}
