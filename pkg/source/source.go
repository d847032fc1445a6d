// Package source defines the narrow contracts of the external collaborators
// (hygiene registry, violation history, map/rating providers) and the typed
// error they fail with.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/safetable/safetable/pkg/restaurant"
)

// Registry looks up establishments in the government hygiene registry.
type Registry interface {
	// FindExact returns the record whose normalized name equals name within
	// region, or nil when there is none.
	FindExact(ctx context.Context, name, region string) (*restaurant.CandidateRecord, error)
	// SearchPartial returns records whose normalized name contains, or is
	// contained by, name within region.
	SearchPartial(ctx context.Context, name, region string) (*restaurant.SearchPage, error)
}

// Violations fetches administrative action history.
type Violations interface {
	GetHistory(ctx context.Context, name, region string) (*restaurant.ViolationHistory, error)
}

// RatingProvider is a map/rating provider.
type RatingProvider interface {
	// Name identifies the provider in ratings maps and logs.
	Name() string
	// SearchByName returns the best place for name in region, or nil.
	SearchByName(ctx context.Context, name, region string) (*restaurant.Place, error)
	// SearchByArea lists restaurants in an area, optionally by category.
	SearchByArea(ctx context.Context, area, category string) (*restaurant.AreaResult, error)
}

// Error is a collaborator failure carrying a machine-readable code.
type Error struct {
	Source  string // "foodsafety", "kakao", ...
	Code    string // upstream code, e.g. "ERROR-300", "OVER_QUERY_LIMIT", "HTTP_503"
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: [%s] %s", e.Source, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an Error with a formatted message.
func Errorf(src, code, format string, args ...any) *Error {
	return &Error{Source: src, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches source context to a transport error. Context errors keep
// their identity so callers can detect timeouts with errors.Is.
func Wrap(src string, err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	code := "TRANSPORT"
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = "TIMEOUT"
	case errors.Is(err, context.Canceled):
		code = "CANCELED"
	}
	return &Error{Source: src, Code: code, Message: err.Error(), Err: err}
}
