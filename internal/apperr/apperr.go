// Package apperr defines the application error taxonomy shared by the
// booking core and its transport bindings.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindStateTransition
	KindAuthorization
	KindInfrastructure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindStateTransition:
		return "state_transition"
	case KindAuthorization:
		return "authorization"
	case KindInfrastructure:
		return "infrastructure"
	default:
		return "unknown"
	}
}

// Error is a typed application error. Infrastructure errors wrap the
// underlying cause; the other kinds usually carry only a message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func StateTransition(format string, args ...any) error {
	return &Error{Kind: KindStateTransition, Msg: fmt.Sprintf(format, args...)}
}

func Authorization(format string, args ...any) error {
	return &Error{Kind: KindAuthorization, Msg: fmt.Sprintf(format, args...)}
}

// Infrastructure wraps a persistence or transport failure. The cause is kept
// so callers can still inspect it; it is never swallowed.
func Infrastructure(msg string, err error) error {
	return &Error{Kind: KindInfrastructure, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, unwrapping as needed. Errors that are
// not application errors report KindInfrastructure: anything untyped that
// escapes the core came from below the repository boundary.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInfrastructure
}

func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func IsNotFound(err error) bool        { return IsKind(err, KindNotFound) }
func IsConflict(err error) bool        { return IsKind(err, KindConflict) }
func IsValidation(err error) bool      { return IsKind(err, KindValidation) }
func IsStateTransition(err error) bool { return IsKind(err, KindStateTransition) }
func IsAuthorization(err error) bool   { return IsKind(err, KindAuthorization) }
