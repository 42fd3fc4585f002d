// Package apperr holds the error kinds surfaced by the services and the
// stable (code, message) conditions attached to them.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindInvalidCredentials
	KindNotSignedIn
	KindSessionExpired
	KindForbidden
	KindNotFound
	KindDuplicateIdentity
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindNotSignedIn:
		return "not_signed_in"
	case KindSessionExpired:
		return "session_expired"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindDuplicateIdentity:
		return "duplicate_identity"
	default:
		return "unexpected"
	}
}

// Error is the typed failure returned by the session, policy and service layers.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same kind and code, so conditions can be
// compared with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func New(cond Condition) *Error {
	return &Error{Kind: cond.Kind, Code: cond.Code, Message: cond.Message}
}

func Wrap(cond Condition, err error) *Error {
	return &Error{Kind: cond.Kind, Code: cond.Code, Message: cond.Message, Err: err}
}

// Unexpected wraps a lower-layer failure that has no more specific kind.
func Unexpected(err error) *Error {
	return Wrap(GenericError, err)
}

func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Recode replaces the code and message of err when its kind matches cond,
// leaving any other error untouched.
func Recode(err error, cond Condition) error {
	appErr, ok := As(err)
	if !ok || appErr.Kind != cond.Kind {
		return err
	}
	return &Error{Kind: appErr.Kind, Code: cond.Code, Message: cond.Message, Err: appErr.Err}
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
