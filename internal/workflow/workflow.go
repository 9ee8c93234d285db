// Package workflow implements the tagging orchestration engine: health
// reconciliation of the backend and its model service, an exclusive
// file-or-folder selection, sequential batch dispatch with per-item
// failure isolation, a streaming result log, and a single-slot tag edit
// state machine.
package workflow

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"tagsense/internal/config"
	"tagsense/internal/log"
	"tagsense/pkg/types"
)

// Collaborator is the external service contract the engine dispatches
// through. All operations block until resolved and may fail.
type Collaborator interface {
	// HealthCheck queries the two-tier health probe
	HealthCheck(ctx context.Context) (types.HealthReport, error)
	// ProcessItem tags a single file
	ProcessItem(ctx context.Context, path string, prompt string) (types.ItemResult, error)
	// ListFolder enumerates the taggable files under a folder
	ListFolder(ctx context.Context, path string) ([]string, error)
}

// Picker lets a front end supply file and folder choices. The second
// return value reports whether the user picked anything at all.
type Picker interface {
	PickFile(filters []string) (string, bool, error)
	PickFolder() (string, bool, error)
}

// Engine is the orchestration core. All state mutation is serialized
// behind one mutex and a busy flag guarantees no two dispatch operations
// ever overlap, so folder batches keep their strict sequential ordering.
type Engine struct {
	mu        sync.Mutex
	cfg       *config.Config
	collab    Collaborator
	monitor   *HealthMonitor
	results   *ResultLog
	editor    *TagEditor
	selection types.Selection
	busy      bool
	statusMsg string

	ignore   []glob.Glob
	textExt  map[string]struct{}
	imageExt map[string]struct{}

	onStatus   func(string)
	onResult   func(types.ProcessingResult)
	onProgress func(index, total int, name string)
}

// New creates an engine wired to a collaborator. Ignore patterns that
// fail to compile are dropped with a warning rather than failing setup.
func New(cfg *config.Config, collab Collaborator) *Engine {
	e := &Engine{
		cfg:      cfg,
		collab:   collab,
		monitor:  NewHealthMonitor(collab, time.Duration(cfg.Health.DebounceSeconds)*time.Second),
		results:  NewResultLog(),
		textExt:  make(map[string]struct{}),
		imageExt: make(map[string]struct{}),
	}
	e.editor = NewTagEditor(e.results)

	for _, pattern := range cfg.Ignore {
		g, err := glob.Compile(pattern)
		if err != nil {
			log.Warn("ignoring bad glob pattern %q: %v", pattern, err)
			continue
		}
		e.ignore = append(e.ignore, g)
	}

	for _, ext := range cfg.Classify.TextExtensions {
		e.textExt[strings.ToLower(ext)] = struct{}{}
	}
	for _, ext := range cfg.Classify.ImageExtensions {
		e.imageExt[strings.ToLower(ext)] = struct{}{}
	}

	return e
}

// Monitor returns the health monitor
func (e *Engine) Monitor() *HealthMonitor {
	return e.monitor
}

// Results returns the result log
func (e *Engine) Results() *ResultLog {
	return e.results
}

// Editor returns the tag editor
func (e *Engine) Editor() *TagEditor {
	return e.editor
}

// OnStatus registers a callback for operation-scoped status messages
// (progress lines, summaries, operation errors)
func (e *Engine) OnStatus(fn func(string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onStatus = fn
}

// OnResult registers a callback fired for every result the moment it is
// appended, so callers can stream folder batches as they complete
func (e *Engine) OnResult(fn func(types.ProcessingResult)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onResult = fn
}

// OnProgress registers a callback fired before each folder item is
// dispatched
func (e *Engine) OnProgress(fn func(index, total int, name string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onProgress = fn
}

// SelectFile sets the selection to a single file, unconditionally
// clearing any folder selection
func (e *Engine) SelectFile(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection = types.FileSelection(path)
	log.Debug("selected file %s", path)
}

// SelectFolder sets the selection to a whole folder, unconditionally
// clearing any file selection
func (e *Engine) SelectFolder(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection = types.FolderSelection(path)
	log.Debug("selected folder %s", path)
}

// ClearSelection resets the selection to none
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection = types.Selection{}
}

// Selection returns the current selection
func (e *Engine) Selection() types.Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection
}

// Busy reports whether a dispatch operation is in flight
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// CanDispatch reports whether a dispatch would currently be accepted:
// something is selected, nothing is in flight, and the model service is
// reachable. Degraded connectivity refuses dispatch even though the
// backend itself answered.
func (e *Engine) CanDispatch() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.busy && !e.selection.IsNone() && e.monitor.Status().Ready()
}

// StatusMessage returns the last operation-scoped status line
func (e *Engine) StatusMessage() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statusMsg
}

// ClearResults empties the result log and drops any edit session whose
// target just vanished
func (e *Engine) ClearResults() {
	e.results.ClearAll()
	e.editor.Invalidate()
}

// Classify derives the content kind from a file extension. It decides
// which model path an item is routed down, so a mixed folder still sends
// each item to the matching model.
func (e *Engine) Classify(path string) types.ContentKind {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := e.imageExt[ext]; ok {
		return types.ContentImage
	}
	if _, ok := e.textExt[ext]; ok {
		return types.ContentText
	}
	return types.ContentUnknown
}

// resolveModel maps a content kind to the configured model name.
// Unknown content takes the text route; the backend is the authority on
// whether it can extract anything from it.
func (e *Engine) resolveModel(kind types.ContentKind) string {
	if kind == types.ContentImage {
		return e.cfg.Models.Vision
	}
	return e.cfg.Models.Text
}

// ignored reports whether a file name matches any ignore glob
func (e *Engine) ignored(path string) bool {
	name := filepath.Base(path)
	for _, g := range e.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (e *Engine) setStatusMessage(msg string) {
	e.mu.Lock()
	e.statusMsg = msg
	fn := e.onStatus
	e.mu.Unlock()

	if fn != nil {
		fn(msg)
	}
}
