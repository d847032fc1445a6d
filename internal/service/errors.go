package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/safetable/safetable/pkg/resolve"
	"github.com/safetable/safetable/pkg/restaurant"
	"github.com/safetable/safetable/pkg/source"
)

// Kind is the error taxonomy exposed to callers.
type Kind string

const (
	KindNotFound        Kind = "NOT_FOUND"
	KindMultipleResults Kind = "MULTIPLE_RESULTS"
	KindAPI             Kind = "API_ERROR"
	KindUnknown         Kind = "UNKNOWN_ERROR"
	KindInvalidQuery    Kind = "INVALID_QUERY"
)

// Error is a failed entry-point call. Message is ready to show to the user.
type Error struct {
	Kind       Kind                `json:"kind"`
	Message    string              `json:"message"`
	Candidates []resolve.Candidate `json:"candidates,omitempty"`
	TotalCount int                 `json:"total_count,omitempty"`
	Source     string              `json:"source,omitempty"`
	Code       string              `json:"code,omitempty"`
	Err        error               `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, or UNKNOWN_ERROR for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func invalid(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidQuery, Message: fmt.Sprintf(format, args...)}
}

func notFound(name, region string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("'%s'(%s)의 위생등급 정보를 찾을 수 없어요. 등급 미지정 업소이거나 상호명/지역이 정확하지 않을 수 있어요.", name, region),
	}
}

func multiple(name string, out *resolve.Outcome) *Error {
	return &Error{
		Kind:       KindMultipleResults,
		Message:    fmt.Sprintf("'%s' 검색 결과가 %d곳이에요. 아래 후보 중 찾으시는 곳을 골라 주세요.", name, out.TotalCount),
		Candidates: out.Candidates,
		TotalCount: out.TotalCount,
	}
}

// fromErr maps a lower-layer failure onto the caller taxonomy.
func fromErr(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, restaurant.ErrInvalidQuery) {
		return invalid("상호명과 지역을 모두 입력해 주세요.")
	}

	var re *resolve.Error
	if errors.As(err, &re) {
		if re.Kind == resolve.KindAPI {
			return apiError(re.Source, re.Code, err)
		}
		return &Error{Kind: KindUnknown, Message: "알 수 없는 오류가 발생했어요. 잠시 후 다시 시도해 주세요.", Source: re.Source, Err: err}
	}
	var src *source.Error
	if errors.As(err, &src) {
		return apiError(src.Source, src.Code, err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		w := source.Wrap("", err)
		return apiError("", w.Code, err)
	}
	return &Error{Kind: KindUnknown, Message: "알 수 없는 오류가 발생했어요. 잠시 후 다시 시도해 주세요.", Err: err}
}

func apiError(src, code string, err error) *Error {
	msg := "외부 서비스에 일시적인 문제가 있어요. 잠시 후 다시 시도해 주세요."
	if code == "TIMEOUT" {
		msg = "외부 서비스 응답이 늦어지고 있어요. 잠시 후 다시 시도해 주세요."
	}
	return &Error{Kind: KindAPI, Message: msg, Source: src, Code: code, Err: err}
}
