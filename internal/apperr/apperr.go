// Package apperr defines the error type shared by every studyfocus package
package apperr

import (
	"errors"
	"fmt"
)

// Error is a user-facing error. A package declares each Error once as a
// template and derives concrete errors from it with Fmt or Wrap so that
// errors.Is can still match the template.
type Error struct {
	Cause   error
	tmpl    *Error
	Message string
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}

	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the template e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.tmpl != nil && e.tmpl == t)
}

// Fmt formats the message template with args.
func (e *Error) Fmt(args ...any) *Error {
	return &Error{
		Message: fmt.Sprintf(e.Message, args...),
		Cause:   e.Cause,
		tmpl:    e.root(),
	}
}

// Wrap attaches an underlying error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		Message: e.Message,
		Cause:   err,
		tmpl:    e.root(),
	}
}

func (e *Error) root() *Error {
	if e.tmpl != nil {
		return e.tmpl
	}

	return e
}

// Message extracts the user-facing message from err, falling back to
// err.Error() for errors that did not originate here.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}

	return err.Error()
}
