package workflow

import (
	"strings"
	"sync"

	"tagsense/pkg/types"
)

// ResultLog is the append-ordered collection of per-item outcomes. It
// owns id generation: ids come from a monotonic counter rather than
// wall-clock time, since a folder loop can produce many results within
// the same instant. Entries are held most-recent-first.
type ResultLog struct {
	mu      sync.RWMutex
	nextID  int64
	entries []types.ProcessingResult
}

// NewResultLog creates an empty result log
func NewResultLog() *ResultLog {
	return &ResultLog{nextID: 1}
}

// Append assigns a fresh id to the result and prepends it, returning the
// stored copy. This is the only way results enter the log.
func (l *ResultLog) Append(r types.ProcessingResult) types.ProcessingResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	r.ID = l.nextID
	l.nextID++

	l.entries = append([]types.ProcessingResult{r}, l.entries...)
	return r
}

// Entries returns a copy of the log, most-recently-completed first
func (l *ResultLog) Entries() []types.ProcessingResult {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]types.ProcessingResult, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of logged results
func (l *ResultLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Get looks up a result by id
func (l *ResultLog) Get(id int64) (types.ProcessingResult, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return types.ProcessingResult{}, false
}

// ClearAll empties the log. Ids are not reset; they stay process-unique
// across clears.
func (l *ResultLog) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// MutateTags replaces the tags of the entry with id using fn, copy-on-
// write. All other fields are left untouched. A missing entry is a
// silent no-op (it may have been cleared); returns whether a mutation
// happened.
func (l *ResultLog) MutateTags(id int64, fn func([]string) []string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].ID != id {
			continue
		}
		current := make([]string, len(l.entries[i].Tags))
		copy(current, l.entries[i].Tags)
		l.entries[i].Tags = fn(current)
		return true
	}
	return false
}

// RemoveTag drops the tag at index from the entry with id. Out-of-range
// indexes are silent no-ops.
func (l *ResultLog) RemoveTag(id int64, index int) bool {
	return l.MutateTags(id, func(tags []string) []string {
		if index < 0 || index >= len(tags) {
			return tags
		}
		return append(tags[:index], tags[index+1:]...)
	})
}

// SetTag replaces the tag at index with the trimmed text. An empty
// trimmed value behaves exactly like RemoveTag.
func (l *ResultLog) SetTag(id int64, index int, text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return l.RemoveTag(id, index)
	}
	return l.MutateTags(id, func(tags []string) []string {
		if index < 0 || index >= len(tags) {
			return tags
		}
		tags[index] = trimmed
		return tags
	})
}
