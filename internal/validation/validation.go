// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields) defined in struct tags and converts failures
// into a 400 *errs.HTTPError.
package validation

import (
	"github.com/go-playground/validator/v10"
)

// validate is shared; validator caches struct metadata per type.
var validate = validator.New()

// Struct runs the tag rules of v.
func Struct(v any) error {
	return validate.Struct(v)
}
