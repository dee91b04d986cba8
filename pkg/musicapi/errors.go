package musicapi

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies every failure the gateway can surface.
type Kind string

const (
	// KindValidation covers inputs rejected before any network call.
	KindValidation Kind = "ValidationError"
	// KindAuth covers missing or rejected credentials.
	KindAuth Kind = "AuthError"
	// KindCredit covers insufficient upstream credits.
	KindCredit Kind = "CreditError"
	// KindNotFound covers unknown task or audio ids.
	KindNotFound Kind = "NotFoundError"
	// KindRateLimit covers upstream rate limiting.
	KindRateLimit Kind = "RateLimitError"
	// KindTimeout covers transport deadlines and exhausted wait budgets.
	KindTimeout Kind = "TimeoutError"
	// KindUpstream covers any other non-success upstream envelope.
	KindUpstream Kind = "UpstreamError"
	// KindTransport covers network, TLS, DNS and parse failures.
	KindTransport Kind = "TransportError"
	// KindGeneration covers tasks that reached terminal error during a wait.
	KindGeneration Kind = "GenerationError"
	// KindInternal covers unanticipated failures.
	KindInternal Kind = "InternalError"
)

// Error is the typed error carried end-to-end. Message must never contain
// the upstream credential.
type Error struct {
	Kind    Kind
	Message string
	// Code is the upstream envelope code when one was received.
	Code int
	// RetryAfterSec is set on rate-limit errors when the upstream provided
	// a Retry-After hint.
	RetryAfterSec int
	// TaskID names the task for generation failures.
	TaskID string
	// Details carries diagnostic payloads, e.g. partial records on a wait
	// timeout or salvaged tracks on a partial generation failure.
	Details any
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: %s (upstream code %d)", e.Kind, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the error kind to the response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindCredit:
		return http.StatusPaymentRequired
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindUpstream, KindTransport, KindGeneration:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewError builds a typed error.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds a typed error around a cause.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Validationf builds a validation error from a format string.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// AsError extracts a typed error from err, wrapping unknown errors as
// internal so every failure leaving the gateway has a kind.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Message: err.Error(), cause: err}
}

// IsKind reports whether err is a typed error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// Fatal reports whether the error must abort a wait loop immediately
// instead of being retried.
func Fatal(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindAuth, KindCredit, KindValidation, KindGeneration, KindNotFound:
		return true
	default:
		return false
	}
}
