package apperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies an application error by failure domain.
type Kind int

const (
	// KindInternal is the default for unclassified failures.
	KindInternal Kind = iota
	// KindConfig marks missing or invalid configuration, detected before any network call.
	KindConfig
	// KindValidation marks malformed user or upstream input (e.g. an incomplete CEP).
	KindValidation
	// KindUpstream marks a non-OK answer from an upstream API.
	KindUpstream
	// KindTimeout marks a call that exceeded its deadline.
	KindTimeout
)

// AppError is an application error carrying an HTTP status and context.
type AppError struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"status_code"` // HTTP status code
	Message string `json:"message"`     // user-facing message
	Err     error  `json:"-"`           // wrapped cause, logs only
	Context string `json:"-"`           // extra context (function, parameters)

	// UpstreamStatus holds the raw status token reported by the upstream
	// API (e.g. "OVER_QUERY_LIMIT"), set only for KindUpstream.
	UpstreamStatus string `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause for errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code of the error.
func (e *AppError) StatusCode() int {
	return e.Code
}

// UserMessage returns the user-facing message.
func (e *AppError) UserMessage() string {
	return e.Message
}

// WithContext attaches context to the error.
func (e *AppError) WithContext(context string) *AppError {
	e.Context = context
	return e
}

// NewConfigError reports missing required configuration. Fatal: nothing may
// run before configuration validates.
func NewConfigError(message string) *AppError {
	return &AppError{
		Kind:    KindConfig,
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

// NewValidationError creates a 400 Bad Request error.
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    http.StatusBadRequest,
		Message: message,
		Err:     err,
	}
}

// NewUpstreamError creates a 502 Bad Gateway error for a failed upstream
// call. status is the upstream's own status token, if it reported one.
func NewUpstreamError(message, status string, err error) *AppError {
	return &AppError{
		Kind:           KindUpstream,
		Code:           http.StatusBadGateway,
		Message:        message,
		Err:            err,
		UpstreamStatus: status,
	}
}

// NewTimeoutError creates a 504 Gateway Timeout error.
func NewTimeoutError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindTimeout,
		Code:    http.StatusGatewayTimeout,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a 500 Internal Server Error. The user sees a
// generic message; details stay in the wrapped error for logs.
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Kind:    KindInternal,
		Code:    http.StatusInternalServerError,
		Message: "erro interno",
		Err:     errors.Join(errors.New(message), err),
	}
}

// WrapError wraps an existing error with a message. An AppError keeps its
// kind and status; anything else becomes an internal error.
func WrapError(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Kind:           appErr.Kind,
			Code:           appErr.Code,
			Message:        fmt.Sprintf("%s: %s", message, appErr.Message),
			Err:            appErr.Err,
			Context:        appErr.Context,
			UpstreamStatus: appErr.UpstreamStatus,
		}
	}

	return NewInternalError(message, err)
}

// FromTransport classifies a failed outbound HTTP call: deadline expiries
// become timeout errors, everything else an upstream error.
func FromTransport(err error, message string) *AppError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return NewTimeoutError(message, err)
	}
	return NewUpstreamError(message, "", err)
}

// IsKind reports whether err is (or wraps) an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

// IsUpstream reports whether err originated from an upstream API.
func IsUpstream(err error) bool { return IsKind(err, KindUpstream) }

// IsTimeout reports whether err was a deadline expiry.
func IsTimeout(err error) bool { return IsKind(err, KindTimeout) }

// IsValidation reports whether err was caused by malformed input.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsConfig reports whether err was caused by missing configuration.
func IsConfig(err error) bool { return IsKind(err, KindConfig) }
