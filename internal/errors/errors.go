// Package errors defines the error taxonomy shared by all flows.
//
// Three kinds matter to callers: NoChanges is benign and short-circuits a
// flow with a friendly notice, Access covers git/repository failures, and
// Backend covers generation failures. Flows never retry on their own; the
// only retry is the user asking for one.
package errors

import (
	"errors"
	"fmt"
)

// Kind represents the category of error
type Kind int

const (
	// KindNoChanges - working tree is clean; benign, not a failure
	KindNoChanges Kind = iota
	// KindAccess - repository read or write failed
	KindAccess
	// KindBackend - generation backend call failed
	KindBackend
	// KindConfig - missing or invalid configuration
	KindConfig
)

// Error is a structured error carrying its kind and cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// ErrNoChanges is the canonical clean-working-tree error. Any Error of
// KindNoChanges matches it under errors.Is.
var ErrNoChanges = &Error{Kind: KindNoChanges, Message: "no changes detected"}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches errors of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New creates a new error with the given kind and message
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap wraps an existing error with a kind and message. Returns nil for a
// nil cause so call sites can wrap unconditionally.
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: err}
}

// Convenience constructors for the taxonomy

// NoChanges creates a benign clean-tree error
func NoChanges(message string) *Error {
	return New(KindNoChanges, message)
}

// AccessError wraps a repository failure
func AccessError(err error, message string) *Error {
	return Wrap(err, KindAccess, message)
}

// AccessErrorf wraps a repository failure with formatting
func AccessErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, KindAccess, fmt.Sprintf(format, args...))
}

// BackendError wraps a generation failure
func BackendError(err error, message string) *Error {
	return Wrap(err, KindBackend, message)
}

// BackendErrorf wraps a generation failure with formatting
func BackendErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, KindBackend, fmt.Sprintf(format, args...))
}

// ConfigError creates a configuration error
func ConfigError(message string) *Error {
	return New(KindConfig, message)
}

// ConfigErrorf creates a configuration error with formatting
func ConfigErrorf(format string, args ...interface{}) *Error {
	return New(KindConfig, fmt.Sprintf(format, args...))
}

// IsNoChanges reports whether err is the benign clean-tree case.
func IsNoChanges(err error) bool {
	return errors.Is(err, ErrNoChanges)
}

// IsAccess reports whether err is a repository access failure.
func IsAccess(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindAccess
}

// IsBackend reports whether err is a generation failure.
func IsBackend(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindBackend
}

// GetKind returns the kind of an error, KindAccess for foreign errors.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindAccess
}
