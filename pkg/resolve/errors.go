package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/safetable/safetable/pkg/source"
)

// ErrorKind classifies a terminal resolution failure.
type ErrorKind string

const (
	KindAPI     ErrorKind = "API_ERROR"
	KindUnknown ErrorKind = "UNKNOWN_ERROR"
)

// Error is a terminal failure of a resolution. NOT_FOUND and AMBIGUOUS are
// outcomes, not errors.
type Error struct {
	Kind    ErrorKind
	Source  string // collaborator that failed, when known
	Code    string // collaborator code, TIMEOUT or CANCELED
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s: [%s] %s", e.Kind, e.Source, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// classify turns a collaborator failure into a resolution Error.
func classify(src string, err error) *Error {
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	var se *source.Error
	if errors.As(err, &se) {
		return &Error{Kind: KindAPI, Source: se.Source, Code: se.Code, Message: se.Message, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		se = source.Wrap(src, err)
		return &Error{Kind: KindAPI, Source: src, Code: se.Code, Message: se.Message, Err: err}
	}
	return &Error{Kind: KindUnknown, Source: src, Message: err.Error(), Err: err}
}

// panicError converts a recovered panic into UNKNOWN_ERROR.
func panicError(src string, rec any) *Error {
	return &Error{Kind: KindUnknown, Source: src, Message: fmt.Sprintf("panic: %v", rec)}
}
