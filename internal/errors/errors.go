// Package errors provides standardized error handling for the tagsense
// application. It defines the error taxonomy the dispatch pipeline is
// built around: connectivity failures trigger health re-checks, content
// failures stay scoped to one item, enumeration failures abort a folder
// batch, and user-input failures are rejected before any external call.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard errors package functions re-exported for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Connectivity means the backend or model service is unreachable;
	// non-fatal, triggers a debounced health re-check
	Connectivity
	// Content means one specific item could not be processed; recorded
	// inline on that item's result only
	Content
	// Enumeration means folder listing failed; aborts the whole folder
	// operation before any item is dispatched
	Enumeration
	// UserInput means dispatch was requested with no selection set or
	// while connectivity disallows it; rejected before any external call
	UserInput
)

// Common error constants for frequently occurring rejections
var (
	ErrNoSelection  = NewUserInputError("no file or folder selected", nil)
	ErrNotConnected = NewUserInputError("tagging service is not connected", nil)
	ErrBusy         = NewUserInputError("a dispatch is already in progress", nil)
)

// TaggingError is the base error type for all application errors
type TaggingError struct {
	msg  string
	path string
	err  error
	kind ErrorKind
}

// New creates a new error with a message
func New(msg string) error {
	return &TaggingError{msg: msg, kind: Unknown}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &TaggingError{msg: fmt.Sprintf(format, args...), kind: Unknown}
}

// Wrap wraps an existing error with additional context, preserving the
// kind of the wrapped error
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &TaggingError{msg: msg, err: err, kind: KindOf(err)}
}

// NewConnectivityError creates an error indicating the backend or model
// service could not be reached
func NewConnectivityError(msg string, err error) *TaggingError {
	return &TaggingError{msg: msg, err: err, kind: Connectivity}
}

// NewContentError creates an error scoped to a single item
func NewContentError(msg string, path string, err error) *TaggingError {
	return &TaggingError{msg: msg, path: path, err: err, kind: Content}
}

// NewEnumerationError creates an error for a failed folder listing
func NewEnumerationError(msg string, path string, err error) *TaggingError {
	return &TaggingError{msg: msg, path: path, err: err, kind: Enumeration}
}

// NewUserInputError creates an error for a rejected dispatch request
func NewUserInputError(msg string, err error) *TaggingError {
	return &TaggingError{msg: msg, err: err, kind: UserInput}
}

// Error returns the error message
func (e *TaggingError) Error() string {
	switch {
	case e.path != "" && e.err != nil:
		return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
	case e.path != "":
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	case e.err != nil:
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	default:
		return e.msg
	}
}

// Unwrap returns the wrapped error
func (e *TaggingError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *TaggingError) Kind() ErrorKind {
	return e.kind
}

// Path returns the file path associated with the error, if any
func (e *TaggingError) Path() string {
	return e.path
}

// KindOf returns the kind of an arbitrary error. Untyped errors report
// Unknown.
func KindOf(err error) ErrorKind {
	var te *TaggingError
	if errors.As(err, &te) {
		return te.Kind()
	}
	return Unknown
}

// IsConnectivity checks whether the error indicates the backend or the
// model service is unreachable. Typed errors are authoritative; plain
// error strings coming back inside backend payloads fall back to the
// message heuristic.
func IsConnectivity(err error) bool {
	if err == nil {
		return false
	}
	if kind := KindOf(err); kind != Unknown {
		return kind == Connectivity
	}
	return ClassifyMessage(err.Error()) == Connectivity
}

// IsContent checks if the error is an item-scoped content error
func IsContent(err error) bool {
	return KindOf(err) == Content
}

// IsEnumeration checks if the error is a folder listing error
func IsEnumeration(err error) bool {
	return KindOf(err) == Enumeration
}

// IsUserInput checks if the error is a rejected dispatch request
func IsUserInput(err error) bool {
	return KindOf(err) == UserInput
}

// connectivityHints are the substrings that mark a free-text failure
// message as connectivity-flavored. Fallback only; the typed kinds above
// are the contract.
var connectivityHints = []string{
	"connection refused",
	"connection reset",
	"no such host",
	"unreachable",
	"timeout",
	"timed out",
	"could not connect",
	"service down",
}

// ClassifyMessage classifies a free-text failure message. It returns
// Connectivity when the message carries a connectivity hint and Content
// otherwise, since untyped messages only ever originate from per-item
// backend payloads.
func ClassifyMessage(msg string) ErrorKind {
	lower := strings.ToLower(msg)
	for _, hint := range connectivityHints {
		if strings.Contains(lower, hint) {
			return Connectivity
		}
	}
	return Content
}
