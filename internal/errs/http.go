package errs

import (
	"net/http"
)

func newHTTPError(status int, message string) *HTTPError {
	return &HTTPError{
		// http.StatusText(503) => "Service Unavailable" => "SERVICE_UNAVAILABLE"
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
	}
}

// NewBadRequestError creates a 400 for missing or malformed input.
func NewBadRequestError(message string, errors []FieldError) *HTTPError {
	e := newHTTPError(http.StatusBadRequest, message)
	e.Errors = errors
	return e
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string) *HTTPError {
	return newHTTPError(http.StatusNotFound, message)
}

// NewInternalServerError creates a 500. A query that reached the
// database and failed ends up here.
func NewInternalServerError(message string, cause error) *HTTPError {
	return newHTTPError(http.StatusInternalServerError, message).WithCause(cause)
}

// NewServiceUnavailableError creates a 503 for an unreachable database.
func NewServiceUnavailableError(message string, cause error) *HTTPError {
	return newHTTPError(http.StatusServiceUnavailable, message).WithCause(cause)
}
