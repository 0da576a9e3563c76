// Package apperr provides the typed, caller-facing error taxonomy.
// Recoverable errors carry a machine-readable kind and code plus a human
// message; storage internals never leak through them.
package apperr

import (
	"errors"
	"fmt"
)

// Kind partitions errors the way an API layer maps them to responses.
type Kind string

const (
	// KindBadRequest covers invalid input, wrong phase, already-submitted,
	// unknown strategy and missing arbiter. Not retried.
	KindBadRequest Kind = "bad_request"

	// KindForbidden covers wrong-role violations (not host/arbiter/initiator).
	KindForbidden Kind = "forbidden"

	// KindNotFound covers missing game/round/action/argument.
	KindNotFound Kind = "not_found"

	// KindInternal covers persistence failures during an already-validated
	// transition. Fatal for the request, never surfaced with detail.
	KindInternal Kind = "internal"
)

// Code is a stable machine-readable error code.
type Code string

const (
	CodeWrongPhase       Code = "WRONG_PHASE"
	CodeAlreadySubmitted Code = "ALREADY_SUBMITTED"
	CodeUnknownStrategy  Code = "UNKNOWN_STRATEGY"
	CodeNoArbiter        Code = "NO_ARBITER"
	CodeNotHost          Code = "NOT_HOST"
	CodeNotArbiter       Code = "NOT_ARBITER"
	CodeNotParticipant   Code = "NOT_PARTICIPANT"
	CodeGameNotFound     Code = "GAME_NOT_FOUND"
	CodeRoundNotFound    Code = "ROUND_NOT_FOUND"
	CodeActionNotFound   Code = "ACTION_NOT_FOUND"
	CodeArgumentNotFound Code = "ARGUMENT_NOT_FOUND"
	CodeArgumentLimit    Code = "ARGUMENT_LIMIT"
	CodeInvalidArgument  Code = "INVALID_ARGUMENT"
	CodeAlreadyVoted     Code = "ALREADY_VOTED"
	CodeSummaryExists    Code = "SUMMARY_EXISTS"
	CodeNotActive        Code = "GAME_NOT_ACTIVE"
	CodeStorage          Code = "STORAGE"
)

// Error is a typed application error.
type Error struct {
	Kind    Kind
	Code    Code
	Message string
	err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// New creates a typed error.
func New(kind Kind, code Code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Newf creates a typed error with a formatted message.
func Newf(kind Kind, code Code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// BadRequest creates a KindBadRequest error.
func BadRequest(code Code, message string) *Error {
	return New(KindBadRequest, code, message)
}

// Forbidden creates a KindForbidden error.
func Forbidden(code Code, message string) *Error {
	return New(KindForbidden, code, message)
}

// NotFound creates a KindNotFound error.
func NotFound(code Code, message string) *Error {
	return New(KindNotFound, code, message)
}

// Internal wraps an unexpected failure. The cause is kept for logs but the
// caller-facing message stays generic.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Code: CodeStorage, Message: "internal error", err: cause}
}

// KindOf extracts the kind from any error; non-typed errors report
// KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// CodeOf extracts the code from any error, or CodeStorage for non-typed
// errors.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeStorage
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
