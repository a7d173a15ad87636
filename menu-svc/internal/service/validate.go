package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type violation struct {
	Field string
	Tag   string
}

// firstViolation runs the struct rules on in and returns the first failed rule.
// ok is true when in passes every rule.
func firstViolation(in any) (v violation, ok bool) {
	err := validate.Struct(in)
	if err == nil {
		return violation{}, true
	}
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) || len(valErrs) == 0 {
		return violation{Tag: "invalid"}, false
	}
	return violation{Field: valErrs[0].Field(), Tag: valErrs[0].Tag()}, false
}
