package errs

import "strings"

// FieldError describes one invalid input field.
//
// Field errors are logged, not serialized: clients only see Response.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Response is the JSON body written for every failed request.
type Response struct {
	Error string `json:"error"`
}

// HTTPError is the error type handlers return.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "SERVICE_UNAVAILABLE").
//   - Message: the text sent to the client.
//   - Status: HTTP status code.
//   - Errors: per-field validation failures, for logging.
//
// The underlying cause, if any, is kept for logging and errors.As/Is
// chains, and never reaches the client.
type HTTPError struct {
	Code    string
	Message string
	Status  int
	Errors  []FieldError

	cause error
}

// Error returns the client-facing message.
func (e *HTTPError) Error() string {
	return e.Message
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Cause returns the wrapped error, or nil.
func (e *HTTPError) Cause() error {
	return e.cause
}

// Is reports true for any *HTTPError target. It does not compare fields.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// Body returns the response body for this error.
func (e *HTTPError) Body() Response {
	return Response{Error: e.Message}
}

// WithCause returns a copy of e wrapping cause.
func (e *HTTPError) WithCause(cause error) *HTTPError {
	cp := *e
	cp.cause = cause
	return &cp
}

// MakeUpperCaseWithUnderscores converts "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
