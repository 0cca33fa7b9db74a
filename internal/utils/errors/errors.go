package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds shared by every layer. Concrete errors wrap one of these.
var (
	ErrValidation       = errors.New("validation error")
	ErrAuth             = errors.New("authentication error")
	ErrUpstream         = errors.New("upstream error")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrConflict         = errors.New("conflict")
	ErrNotFound         = errors.New("resource not found")
	ErrRateLimited      = errors.New("rate limited")
	ErrUnavailable      = errors.New("service unavailable")
)

// AppError represents an application error with HTTP status and error code.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Validation creates a user-correctable validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Err:        ErrValidation,
	}
}

// Auth creates an authentication error. The message is deliberately generic.
func Auth() *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "authentication failed",
		StatusCode: http.StatusUnauthorized,
		Err:        ErrAuth,
	}
}

// Upstream creates a retryable provider error.
func Upstream(message string) *AppError {
	if message == "" {
		message = "payment provider unavailable, please try again"
	}
	return &AppError{
		Code:       "UPSTREAM_ERROR",
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        ErrUpstream,
	}
}

// MalformedPayload creates an error for an unparseable notification.
func MalformedPayload(message string) *AppError {
	return &AppError{
		Code:       "MALFORMED_PAYLOAD",
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Err:        ErrMalformedPayload,
	}
}

// Conflict creates a conflict error.
func Conflict(message string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    message,
		StatusCode: http.StatusConflict,
		Err:        ErrConflict,
	}
}

// NotFound creates a not found error.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
		Err:        ErrNotFound,
	}
}

// RateLimited creates a rate limited error.
func RateLimited() *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    "too many requests",
		StatusCode: http.StatusTooManyRequests,
		Err:        ErrRateLimited,
	}
}

// Unavailable creates an error for a gateway that is not configured.
func Unavailable(message string) *AppError {
	return &AppError{
		Code:       "GATEWAY_UNAVAILABLE",
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Err:        ErrUnavailable,
	}
}

// Internal creates an internal error.
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// FromError maps any error onto an AppError by kind.
// Messages of unknown errors are not exposed.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrValidation):
		return Validation(userMessage(err))
	case errors.Is(err, ErrAuth):
		return Auth()
	case errors.Is(err, ErrUpstream):
		return Upstream("")
	case errors.Is(err, ErrMalformedPayload):
		return MalformedPayload(userMessage(err))
	case errors.Is(err, ErrConflict):
		return Conflict(userMessage(err))
	case errors.Is(err, ErrNotFound):
		return NotFound("resource")
	case errors.Is(err, ErrRateLimited):
		return RateLimited()
	case errors.Is(err, ErrUnavailable):
		return Unavailable("payment gateway is not available")
	default:
		return Internal("internal server error", err)
	}
}

// GetStatusCode returns the HTTP status code for an error.
func GetStatusCode(err error) int {
	return FromError(err).StatusCode
}

// Messager is implemented by errors carrying a message safe to show to the payer.
type Messager interface {
	UserMessage() string
}

func userMessage(err error) string {
	var m Messager
	if errors.As(err, &m) {
		return m.UserMessage()
	}
	return err.Error()
}

// Is reports whether target matches this error.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code == t.Code
	}
	return errors.Is(e.Err, target)
}

