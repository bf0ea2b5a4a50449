// Package errors defines the sentinel errors shared by the indexing, query
// and link-ranking packages, plus a wrapper that attaches the failing
// operation and a human readable message.
package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrMalformedInput      = errors.New("malformed input")
	ErrMissingCollaborator = errors.New("missing collaborator data")
	ErrInvalidInput        = errors.New("invalid input")
)

type Error struct {
	Err     error
	Op      string
	Message string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Err.Error(), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(sentinel error, op string, message string) *Error {
	return &Error{
		Err:     sentinel,
		Op:      op,
		Message: message,
	}
}

func Newf(sentinel error, op string, format string, args ...any) *Error {
	return &Error{
		Err:     sentinel,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// Kind returns a short, stable label for err suitable for metric labels and
// log fields.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, ErrMissingCollaborator):
		return "missing_collaborator"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	default:
		return "internal"
	}
}
