// Package apperr defines the error taxonomy shared by the store, the remote
// client and the sync engine. Callers classify errors by Kind, never by
// message text.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// KindStorage: local store I/O failed. Fatal to the current operation,
	// surfaced to the caller directly.
	KindStorage Kind = iota
	// KindValidation: order incomplete for transmission. Fatal, needs a
	// human edit before the next attempt.
	KindValidation
	// KindTransient: network/timeout family. Retried by the retry policy.
	KindTransient
	// KindAuth: backend rejected the session. Fatal, also gates future
	// cycles until re-authentication.
	KindAuth
	// KindPartialSync: header push succeeded but item push failed. The
	// order keeps its sync key, so the next cycle resumes safely.
	KindPartialSync
	// KindNotFound: entity does not exist locally.
	KindNotFound
	// KindConflict: precondition failed, e.g. editing a processed order.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindStorage:
		return "storage"
	case KindValidation:
		return "validation"
	case KindTransient:
		return "transient"
	case KindAuth:
		return "auth"
	case KindPartialSync:
		return "partial_sync"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	}
	return "unknown"
}

// Error wraps an underlying error with a classification kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg != "" {
			return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New creates a classified error with a static message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf creates a classified error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error. Returns nil if err is nil.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or KindStorage false if err carries none.
func KindOf(err error) (Kind, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsTransient reports whether err should be retried. Unclassified errors are
// treated as fatal.
func IsTransient(err error) bool {
	return Is(err, KindTransient)
}

func IsAuth(err error) bool       { return Is(err, KindAuth) }
func IsNotFound(err error) bool   { return Is(err, KindNotFound) }
func IsConflict(err error) bool   { return Is(err, KindConflict) }
func IsValidation(err error) bool { return Is(err, KindValidation) }
