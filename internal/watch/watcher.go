// Package watch reruns tasks when project files change: an fsnotify
// watcher over the project tree, debounced into change bursts, plus a
// cross-process lock so only one watcher runs per project.
package watch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/millworks/taskmill/internal/logging"
)

// Watcher reports change bursts under a project tree. Editors produce
// several filesystem events per save, so events are collected and flushed
// as one burst after a quiet period of the debounce length.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	ignore   []string
	logger   *logging.Logger

	mu      sync.Mutex
	onBurst func(paths []string)

	stopCh chan struct{}
	doneCh chan struct{}
}

// New creates a watcher with the given debounce interval and list of
// directory names that are never watched. A nil logger disables watch
// logging.
func New(debounce time.Duration, ignore []string, logger *logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Watcher{
		fsw:      fsw,
		debounce: debounce,
		ignore:   ignore,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// OnBurst sets the callback invoked with the sorted paths of each change
// burst. Set it before Start.
func (w *Watcher) OnBurst(cb func(paths []string)) {
	w.mu.Lock()
	w.onBurst = cb
	w.mu.Unlock()
}

// AddTree watches root and every directory beneath it, skipping ignored
// directory names. fsnotify only watches directories, so files gain
// coverage through their parents.
func (w *Watcher) AddTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		base := filepath.Base(path)
		for _, ig := range w.ignore {
			if base == ig {
				return filepath.SkipDir
			}
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("cannot watch directory", "dir", path, "error", err.Error())
		}
		return nil
	})
}

// Start begins processing filesystem events.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop stops the watcher and waits for the event loop to drain. A burst
// flush in progress completes first.
func (w *Watcher) Stop() {
	close(w.stopCh)
	_ = w.fsw.Close()
	<-w.doneCh
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	timer := time.NewTimer(0)
	<-timer.C // drain so only Reset arms it

	pending := make(map[string]struct{})

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if w.ignored(event.Name) {
				continue
			}
			// Directories created after Start join the watch, so changes
			// beneath them are seen too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.AddTree(event.Name)
				}
			}
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})

			w.mu.Lock()
			cb := w.onBurst
			w.mu.Unlock()
			w.logger.Debug("change burst", "paths", len(paths))
			if cb != nil {
				cb(paths)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err.Error())
		}
	}
}

// ignored reports whether path falls under an ignored directory name.
func (w *Watcher) ignored(path string) bool {
	sep := string(filepath.Separator)
	for _, ig := range w.ignore {
		if filepath.Base(path) == ig ||
			strings.Contains(path, sep+ig+sep) ||
			strings.HasSuffix(path, sep+ig) {
			return true
		}
	}
	return false
}
