// Package errs classifies failures of the lookup operations so the HTTP layer
// can map them to status codes without knowing where they came from.
//
// Example:
//
//	if countryID == "" {
//	    return nil, errs.Validation(op, "country_id is required")
//	}
//	rows, err := store.Branches(ctx, id)
//	if err != nil {
//	    return nil, errs.Store(op, err)
//	}
package errs

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Every *Error matches exactly one of them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrStore      = errors.New("store failure")
)

// Error is a classified failure of operation Op.
type Error struct {
	// Op names the operation, e.g. "lookup.branches".
	Op string
	// Kind is one of the package sentinels.
	Kind error
	// Msg is safe to show to clients. Store failures leave it empty.
	Msg string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var s string
	switch {
	case e.Msg != "":
		s = fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
	default:
		s = fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap exposes both the kind and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewKind creates an error of kind for op with a client-safe message.
func NewKind(op string, kind error, msg string) *Error {
	return &Error{Op: op, Kind: kind, Msg: msg}
}

// WrapKind classifies cause as kind for op.
func WrapKind(op string, kind error, cause error) *Error {
	return &Error{Op: op, Kind: kind, Err: cause}
}

// Validation reports a missing or unusable request parameter.
func Validation(op, msg string) *Error { return NewKind(op, ErrValidation, msg) }

// NotFound reports a lookup by id that matched nothing.
func NotFound(op, msg string) *Error { return NewKind(op, ErrNotFound, msg) }

// Store wraps a relational store failure.
func Store(op string, cause error) *Error { return WrapKind(op, ErrStore, cause) }

// KindOf returns the sentinel kind of err. Unclassified errors count as store
// failures; nil returns nil.
func KindOf(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation):
		return ErrValidation
	case errors.Is(err, ErrNotFound):
		return ErrNotFound
	default:
		return ErrStore
	}
}

// Message returns the client-safe message carried by err, or "".
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return ""
}

// Op returns the operation name carried by err, or "".
func Op(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}
