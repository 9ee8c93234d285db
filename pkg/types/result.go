package types

import (
	"encoding/json"
	"path/filepath"
	"time"
)

// SourceKind records how a result entered the log: a one-off dispatch
// for a single selected file, or one member of a folder batch.
type SourceKind int

const (
	// SingleFile marks a result produced by a single-file dispatch
	SingleFile SourceKind = iota
	// FolderMember marks a result produced as part of a folder batch
	FolderMember
)

// ProcessingResult is one per-item outcome in the result log. Every
// field except Tags is immutable once the result is appended; Tags are
// replaced copy-on-write through the result log's mutators.
type ProcessingResult struct {
	ID           int64      `json:"id"`
	SourceKind   SourceKind `json:"source_kind"`
	OriginFolder string     `json:"origin_folder,omitempty"` // set only for FolderMember
	Path         string     `json:"path"`
	ModelUsed    string     `json:"model_used"`
	Tags         []string   `json:"tags,omitempty"`
	Success      bool       `json:"success"`
	ErrorDetail  string     `json:"error_detail,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}

// Name returns the base name of the processed file
func (r *ProcessingResult) Name() string {
	return filepath.Base(r.Path)
}

// ToJSON converts the result to a JSON string
func (r *ProcessingResult) ToJSON() string {
	jsonBytes, _ := json.Marshal(r)
	return string(jsonBytes)
}

// EditSession is the single in-progress tag edit, if any. The engine
// holds at most one of these at its root; PendingValue is the staged
// text that commit writes back through the result log.
type EditSession struct {
	ResultID     int64
	TagIndex     int
	PendingValue string
}
