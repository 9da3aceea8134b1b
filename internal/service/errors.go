package service

import "errors"

// Kind classifies a request failure.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
	KindValidation Kind = "validation"
	KindUpstream   Kind = "upstream_unavailable"
)

// Error is a structured request failure surfaced to the caller. None of
// these are retried by the core.
type Error struct {
	Kind    Kind
	Message string
	// DupeConflict marks a validation failure that the caller may
	// resolve by re-submitting with an explicit confirmation.
	DupeConflict bool
}

func (e *Error) Error() string { return e.Message }

// NotFound reports a missing run, slot or ledger entry.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// Forbidden reports a caller without rights for the action.
func Forbidden(msg string) *Error { return &Error{Kind: KindForbidden, Message: msg} }

// Invalid reports a malformed or rule-violating request, detected
// before any partial commit.
func Invalid(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

// Upstream reports a failed reference-data dependency; the mutation
// that needed it is aborted.
func Upstream(msg string) *Error { return &Error{Kind: KindUpstream, Message: msg} }

// AsError unwraps a service failure from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
