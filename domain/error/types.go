package domainerror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a specific error code.
type ErrorCode string

const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeConfig       ErrorCode = "CONFIG_ERROR"
)

// HTTPError represents an error that knows which HTTP status it maps to and,
// optionally, what response payload describes it.
type HTTPError struct {
	Code      ErrorCode
	Message   string
	Cause     error
	Status    int
	Body      any
	RequestID string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target by code.
func (e *HTTPError) Is(target error) bool {
	t, ok := target.(*HTTPError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus returns the HTTP status code for the error.
func (e *HTTPError) HTTPStatus() int {
	if e.Status > 0 {
		return e.Status
	}
	switch e.Code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody returns the payload attached to the error, if any.
func (e *HTTPError) ErrorBody() any {
	return e.Body
}

// WithBody attaches a response payload.
func (e *HTTPError) WithBody(body any) *HTTPError {
	e.Body = body
	return e
}

// WithStatus overrides the HTTP status.
func (e *HTTPError) WithStatus(status int) *HTTPError {
	e.Status = status
	return e
}

// WithRequestID records the correlation id of the failing request.
func (e *HTTPError) WithRequestID(id string) *HTTPError {
	e.RequestID = id
	return e
}

// New creates a new HTTPError.
func New(code ErrorCode, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

// Wrap wraps an existing error.
func Wrap(err error, code ErrorCode, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message, Cause: err}
}

// NewBadRequest creates a bad request error.
func NewBadRequest(message string) *HTTPError {
	return New(CodeBadRequest, message)
}

// NewUnauthorized creates an unauthorized error.
func NewUnauthorized(message string) *HTTPError {
	return New(CodeUnauthorized, message)
}

// NewNotFound creates a not found error.
func NewNotFound(format string, args ...interface{}) *HTTPError {
	return New(CodeNotFound, fmt.Sprintf(format, args...))
}

// NewInternal creates an internal error.
func NewInternal(message string, cause error) *HTTPError {
	return Wrap(cause, CodeInternal, message)
}

// NewConfigError creates a configuration error.
func NewConfigError(message string, cause error) *HTTPError {
	return Wrap(cause, CodeConfig, message)
}

// IsCode checks if an error has a specific code.
func IsCode(err error, code ErrorCode) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code == code
	}
	return false
}
