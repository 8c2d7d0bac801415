package domain

import (
	"errors"
	"net/http"
)

// ErrorKind classifies the failures the search pipeline knows how to report.
type ErrorKind int

const (
	// KindProtocol is a request made with the wrong HTTP method.
	KindProtocol ErrorKind = iota + 1
	// KindValidation is a request missing a required field.
	KindValidation
	// KindConfiguration is a missing server-side setting.
	KindConfiguration
	// KindUpstream is a non-2xx answer from the upstream API.
	KindUpstream
)

// Messages returned to callers.
const (
	MsgMethodNotAllowed    = "Method not allowed"
	MsgQueryRequired       = "Query is required"
	MsgAPIKeyNotConfigured = "API key not configured"
	MsgUpstreamFailed      = "API request failed"
)

// Error is a classified pipeline failure carrying the status to report.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// String returns the kind name used in logs.
func (k ErrorKind) String() string {
	switch k {
	case KindProtocol:
		return "protocol"
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// ErrMethodNotAllowed reports a non-POST invocation.
func ErrMethodNotAllowed() *Error {
	return &Error{Kind: KindProtocol, Status: http.StatusMethodNotAllowed, Message: MsgMethodNotAllowed, Err: nil}
}

// ErrQueryRequired reports a missing or empty query.
func ErrQueryRequired(cause error) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: MsgQueryRequired, Err: cause}
}

// NewValidationError reports an invalid field with a custom message.
func NewValidationError(message string, cause error) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message, Err: cause}
}

// ErrAPIKeyNotConfigured reports a missing upstream credential.
func ErrAPIKeyNotConfigured() *Error {
	return &Error{
		Kind:    KindConfiguration,
		Status:  http.StatusInternalServerError,
		Message: MsgAPIKeyNotConfigured,
		Err:     nil,
	}
}

// NewUpstreamError mirrors an upstream failure. An empty message falls back to MsgUpstreamFailed.
func NewUpstreamError(status int, message string) *Error {
	if message == "" {
		message = MsgUpstreamFailed
	}
	return &Error{Kind: KindUpstream, Status: status, Message: message, Err: nil}
}

// AsError extracts a classified *Error from err.
func AsError(err error) (*Error, bool) {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
