package usecase

import (
	"errors"
	"fmt"

	"bank-chat-gateway/internal/domain"
)

type ErrorCode string

const (
	ErrorValidation          ErrorCode = "VALIDATION_ERROR"
	ErrorConfiguration       ErrorCode = "CONFIGURATION_ERROR"
	ErrorUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrorMalformedUpstream   ErrorCode = "MALFORMED_UPSTREAM_RESPONSE"
	ErrorPersistence         ErrorCode = "PERSISTENCE_ERROR"
	ErrorInternal            ErrorCode = "INTERNAL_ERROR"
)

// Error is the typed failure produced by the chat pipeline. Message is safe to
// show to the end user; Err keeps the underlying cause for logs.
type Error struct {
	Code    ErrorCode
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// upstreamMessager is implemented by adapter errors that carry a message the
// upstream service meant for its caller.
type upstreamMessager interface {
	UpstreamMessage() string
}

// classifyUpstream maps an adapter failure onto the pipeline's error kinds.
func classifyUpstream(reason string, err error) *Error {
	code := ErrorUpstreamUnavailable
	switch {
	case errors.Is(err, domain.ErrNotConfigured):
		code = ErrorConfiguration
	case errors.Is(err, domain.ErrMalformedResponse):
		code = ErrorMalformedUpstream
	}
	out := newError(code, reason, err)
	var m upstreamMessager
	if errors.As(err, &m) {
		out.Message = m.UpstreamMessage()
	}
	return out
}
