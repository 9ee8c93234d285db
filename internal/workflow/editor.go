package workflow

import (
	"sync"

	"tagsense/pkg/types"
)

// TagEditor is the single-slot edit state machine operating on result
// log entries. It is either idle or editing exactly one tag of exactly
// one result; the session lives here, at the root, so "at most one edit"
// is structural rather than a per-item flag.
type TagEditor struct {
	mu      sync.Mutex
	log     *ResultLog
	session *types.EditSession
}

// NewTagEditor creates an idle editor bound to a result log
func NewTagEditor(log *ResultLog) *TagEditor {
	return &TagEditor{log: log}
}

// StartEdit begins editing the tag at tagIndex of the result with
// resultID, seeding the pending value with the tag's current text. A
// prior in-progress edit is discarded, not committed: an implicit write
// the user never confirmed is worse than losing staged text. Returns
// false when the target result or tag index does not exist.
func (e *TagEditor) StartEdit(resultID int64, tagIndex int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.log.Get(resultID)
	if !ok || tagIndex < 0 || tagIndex >= len(r.Tags) {
		return false
	}

	e.session = &types.EditSession{
		ResultID:     resultID,
		TagIndex:     tagIndex,
		PendingValue: r.Tags[tagIndex],
	}
	return true
}

// Change updates the pending value of the active edit. A no-op when
// idle.
func (e *TagEditor) Change(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		e.session.PendingValue = value
	}
}

// Commit writes the pending value back through the result log and
// returns to idle. An empty pending value removes the tag, matching
// SetTag semantics. Returns whether a mutation happened.
func (e *TagEditor) Commit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return false
	}
	s := *e.session
	e.session = nil
	return e.log.SetTag(s.ResultID, s.TagIndex, s.PendingValue)
}

// Cancel discards the pending value and returns to idle without
// mutating anything
func (e *TagEditor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = nil
}

// Session returns a copy of the active edit session, if any
func (e *TagEditor) Session() (types.EditSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return types.EditSession{}, false
	}
	return *e.session, true
}

// Invalidate drops the session if its target result or tag index no
// longer exists, e.g. after a clear-all. Keeping a session pointing at a
// vanished entry would let a later commit write into the void.
func (e *TagEditor) Invalidate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return
	}
	r, ok := e.log.Get(e.session.ResultID)
	if !ok || e.session.TagIndex < 0 || e.session.TagIndex >= len(r.Tags) {
		e.session = nil
	}
}
