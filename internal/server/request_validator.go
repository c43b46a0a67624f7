package server

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yshishenya/a101-hr-profile-generator-sub002/internal/validation"
)

// newRequestValidator builds the validator for request envelopes. Field names in
// errors use the JSON names, and "known_domain" accepts any domain the ruleset
// of v knows about.
func newRequestValidator(v *validation.Validator) *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	rules := v.Ruleset()
	_ = validate.RegisterValidation("known_domain", func(fl validator.FieldLevel) bool {
		return rules.HasDomain(fl.Field().String())
	})

	return validate
}
