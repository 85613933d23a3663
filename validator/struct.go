// Package validator turns go-playground validation failures into
// per-field messages keyed by JSON name.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = New()

// errorMessages maps validation tags to friendly messages.
var errorMessages = map[string]string{
	"required": "The field '%s' is required.",
	"email":    "The field '%s' must be a valid email address.",
	"min":      "The field '%s' must be at least %s characters long.",
	"max":      "The field '%s' must be no longer than %s characters.",
	"lte":      "The field '%s' must be less than or equal to %s.",
	"gte":      "The field '%s' must be greater than or equal to %s.",
	"gt":       "The field '%s' must be greater than %s.",
	"lt":       "The field '%s' must be less than %s.",
	"oneof":    "The field '%s' must be one of %s.",
}

// New returns a validator that reports fields by their JSON names.
func New() *validator.Validate {
	v := validator.New()
	RegisterJSONTagNames(v)
	return v
}

// RegisterJSONTagNames makes v report fields by their JSON names.
func RegisterJSONTagNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.Split(f.Tag.Get("json"), ",")[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

// parseMessage constructs a friendly error message based on the validation tag.
func parseMessage(field string, e validator.FieldError) string {
	if msg, ok := errorMessages[e.Tag()]; ok {
		switch strings.Count(msg, "%s") {
		case 1:
			return fmt.Sprintf(msg, field)
		case 2:
			return fmt.Sprintf(msg, field, e.Param())
		}
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", field, e.Tag())
}

// Messages returns field messages for a validation error, or nil when err
// is not one.
func Messages(err error) map[string]string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}
	out := make(map[string]string, len(validationErrs))
	for _, e := range validationErrs {
		out[e.Field()] = parseMessage(e.Field(), e)
	}
	return out
}

// ValidateStruct validates s and returns a map of JSON field names to
// friendly error messages. The map is empty when s is valid.
func ValidateStruct(s any) map[string]string {
	if msgs := Messages(validate.Struct(s)); msgs != nil {
		return msgs
	}
	return map[string]string{}
}
