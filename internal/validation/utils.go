package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/hydro-gateway/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to validate themselves.
type Validatable interface {
	Validate() error
}

// MessageProvider lets a payload choose the client message sent when
// it fails validation. Without it the message is "Validation failed".
type MessageProvider interface {
	ValidationMessage() string
}

const defaultMessage = "Validation failed"

// BindAndValidate binds query, path and body data into payload and
// validates it. Failures are returned as a 400 *errs.HTTPError.
//
// payload must be a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(messageFor(payload, bindMessage(err)), nil).WithCause(err)
	}

	if err := payload.Validate(); err != nil {
		fieldErrors := extractValidationError(err)
		return errs.NewBadRequestError(messageFor(payload, defaultMessage), fieldErrors).WithCause(err)
	}

	return nil
}

func messageFor(payload Validatable, fallback string) string {
	if mp, ok := payload.(MessageProvider); ok {
		if msg := mp.ValidationMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}

// bindMessage extracts Echo's message from a bind failure.
func bindMessage(err error) string {
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return "Invalid request parameters"
}

func extractValidationError(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []errs.FieldError{{Field: "", Error: err.Error()}}
	}

	for _, fe := range validationErrors {
		field := lowerFirst(fe.Field())
		var msg string

		switch fe.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if fe.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fe.Param())
			}

		case "max":
			if fe.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fe.Param())
			}

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fe.Param())

		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, fe.Tag(), fe.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, fe.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{Field: field, Error: msg})
	}

	return fieldErrors
}

// lowerFirst turns StartDate into startDate to match the query names.
func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
