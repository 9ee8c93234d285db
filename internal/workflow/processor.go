package workflow

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	serr "tagsense/internal/errors"
	"tagsense/internal/log"
	"tagsense/pkg/types"
)

// begin gates a dispatch operation: it rejects when another dispatch is
// in flight, when the selection does not match the requested kind, or
// when connectivity disallows dispatch. On success the engine is marked
// busy and the selected path is returned.
func (e *Engine) begin(kind types.SelectionKind) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.busy {
		return "", serr.ErrBusy
	}
	if e.selection.Kind != kind {
		return "", serr.ErrNoSelection
	}
	if !e.monitor.Status().Ready() {
		return "", serr.ErrNotConnected
	}

	e.busy = true
	return e.selection.Path, nil
}

func (e *Engine) end() {
	e.mu.Lock()
	e.busy = false
	e.mu.Unlock()
}

// ProcessFile issues exactly one dispatch for the selected file. The
// outcome, success or failure, lands in the result log either way; only
// a rejected request (busy, no selection, not connected) returns an
// error, and then nothing is appended.
func (e *Engine) ProcessFile(ctx context.Context) (types.ProcessingResult, error) {
	path, err := e.begin(types.SelectFile)
	if err != nil {
		e.setStatusMessage(err.Error())
		return types.ProcessingResult{}, err
	}
	defer e.end()

	r := e.dispatch(ctx, path, types.SingleFile, "")
	if r.Success {
		e.setStatusMessage(fmt.Sprintf("tagged %s: %d tags", r.Name(), len(r.Tags)))
	} else {
		e.setStatusMessage(fmt.Sprintf("failed to tag %s", r.Name()))
	}
	return r, nil
}

// ProcessPath dispatches one explicit file path outside the selection
// flow. The watcher uses it to auto-tag files as they appear; gating is
// the same as ProcessFile except no selection is required.
func (e *Engine) ProcessPath(ctx context.Context, path string) (types.ProcessingResult, error) {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return types.ProcessingResult{}, serr.ErrBusy
	}
	if !e.monitor.Status().Ready() {
		e.mu.Unlock()
		return types.ProcessingResult{}, serr.ErrNotConnected
	}
	e.busy = true
	e.mu.Unlock()
	defer e.end()

	return e.dispatch(ctx, path, types.SingleFile, ""), nil
}

// ProcessFolder enumerates the selected folder and dispatches every
// discovered file strictly sequentially. Listing failure aborts the
// whole operation with a single status message and appends nothing;
// per-item failures are isolated, so item i failing never skips item
// i+1. Each result is appended the moment its dispatch completes.
func (e *Engine) ProcessFolder(ctx context.Context) (successCount, failCount int, err error) {
	folder, err := e.begin(types.SelectFolder)
	if err != nil {
		e.setStatusMessage(err.Error())
		return 0, 0, err
	}
	defer e.end()

	files, err := e.collab.ListFolder(ctx, folder)
	if err != nil {
		// All-or-nothing: no partial entries for a listing failure
		if serr.IsConnectivity(err) {
			e.monitor.ScheduleRecheck()
		}
		e.setStatusMessage(fmt.Sprintf("folder listing failed: %v", err))
		return 0, 0, err
	}

	var discovered []string
	for _, f := range files {
		if e.ignored(f) {
			log.Debug("skipping ignored file %s", f)
			continue
		}
		discovered = append(discovered, f)
	}

	total := len(discovered)
	log.LogWithFields(log.F("folder", folder), log.F("files", total)).Info("processing folder")

	for i, f := range discovered {
		name := filepath.Base(f)
		e.setStatusMessage(fmt.Sprintf("processing %d/%d: %s", i+1, total, name))

		e.mu.Lock()
		progress := e.onProgress
		e.mu.Unlock()
		if progress != nil {
			progress(i+1, total, name)
		}

		r := e.dispatch(ctx, f, types.FolderMember, folder)
		if r.Success {
			successCount++
		} else {
			failCount++
		}
	}

	e.setStatusMessage(fmt.Sprintf("%d successful, %d failed out of %d files",
		successCount, failCount, total))
	return successCount, failCount, nil
}

// dispatch performs one collaborator call for one file and appends the
// outcome to the result log. Connectivity-flavored failures additionally
// arm the debounced health re-check; content failures do not.
func (e *Engine) dispatch(ctx context.Context, path string, source types.SourceKind, originFolder string) types.ProcessingResult {
	kind := e.Classify(path)
	model := e.resolveModel(kind)

	result := types.ProcessingResult{
		SourceKind:   source,
		OriginFolder: originFolder,
		Path:         path,
		ModelUsed:    model,
		Timestamp:    time.Now(),
	}

	res, err := e.collab.ProcessItem(ctx, path, "")
	switch {
	case err != nil:
		result.Success = false
		result.ErrorDetail = err.Error()
		if serr.IsConnectivity(err) {
			e.monitor.ScheduleRecheck()
		}
	case !res.Success:
		result.Success = false
		result.ErrorDetail = res.Error
		// Untyped failure text from the backend payload; fall back to
		// the message heuristic
		if serr.ClassifyMessage(res.Error) == serr.Connectivity {
			e.monitor.ScheduleRecheck()
		}
	default:
		result.Success = true
		result.Tags = res.Tags
		if res.Model != "" {
			result.ModelUsed = res.Model
		}
	}

	appended := e.results.Append(result)

	e.mu.Lock()
	onResult := e.onResult
	e.mu.Unlock()
	if onResult != nil {
		onResult(appended)
	}

	if !appended.Success {
		log.LogWithFields(log.F("path", path), log.F("error", appended.ErrorDetail)).
			Debug("item failed")
	}
	return appended
}
