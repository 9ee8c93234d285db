// Package watch auto-tags files as they appear. It monitors a directory
// with fsnotify and feeds settled files into the workflow engine as
// single-file dispatches.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	serr "tagsense/internal/errors"
	"tagsense/internal/log"
	"tagsense/internal/workflow"
)

// Watcher monitors directories and dispatches newly created or written
// files through the engine. Events for the same file within the settle
// window collapse into one dispatch, so a file still being written is
// tagged once, after it quiets down.
type Watcher struct {
	engine *workflow.Engine
	settle time.Duration

	fsWatcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer // per-path settle timers
	running bool
	stop    chan struct{}
}

// New creates a watcher bound to an engine
func New(engine *workflow.Engine, settle time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		engine:    engine,
		settle:    settle,
		fsWatcher: fsWatcher,
		pending:   make(map[string]*time.Timer),
	}, nil
}

// AddDirectory adds a directory to watch
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	log.LogWithFields(log.F("directory", dir)).Info("watching directory")
	return nil
}

// Start begins the event loop. It returns immediately; dispatching
// happens on the watcher's own goroutine.
func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stop = make(chan struct{})
	w.mu.Unlock()

	go w.loop()
	return nil
}

// Stop halts the event loop and cancels any pending settle timers
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stop)

	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	log.Info("watcher event loop started")

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				w.observe(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Error("watcher error: %v", err)
		case <-w.stop:
			return
		}
	}
}

// observe schedules a settled dispatch for path, resetting the timer if
// one is already pending
func (w *Watcher) observe(path string) {
	name := filepath.Base(path)
	// Skip hidden and temp files outright
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.dispatch(path)
	})
}

func (w *Watcher) dispatch(path string) {
	logger := log.LogWithFields(log.F("path", path))

	r, err := w.engine.ProcessPath(context.Background(), path)
	if err != nil {
		// Busy or disconnected; the file stays untagged until it is
		// touched again
		if serr.IsUserInput(err) {
			logger.Debugf("auto-tag skipped: %v", err)
		} else {
			logger.Errorf("auto-tag failed: %v", err)
		}
		return
	}

	if r.Success {
		logger.Infof("auto-tagged with %d tags", len(r.Tags))
	} else {
		logger.Warnf("auto-tag produced no tags: %s", r.ErrorDetail)
	}
}
