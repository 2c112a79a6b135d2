// Package validation turns go-playground/validator results into field-level
// errors that can be returned to API clients as-is.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one rejected field. Field is the JSON name of the
// field, dotted for nested values.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the list of all field problems found in one payload.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Message)
	}

	return strings.Join(parts, ", ")
}

// Has reports whether field was rejected.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}

	return false
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	// The only way this can fail is an empty tag or nil func.
	_ = v.RegisterValidation("rfc3339", isRFC3339)

	return &Validator{v: v}
}

// Struct validates s against its `validate` tags. A non-nil result is
// either Errors or the validator's own error for a non-struct argument.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	out := make(Errors, 0, len(validateErrs))
	for _, fe := range validateErrs {
		field := fieldPath(fe.Namespace())
		out = append(out, FieldError{
			Field:   field,
			Message: message(field, fe.Tag(), fe.Param(), fe.Kind()),
		})
	}

	return out
}

// Var validates a single value against tag and names the failure after
// field. It returns nil when the value is acceptable.
func (v *Validator) Var(field string, value any, tag string) *FieldError {
	err := v.v.Var(value, tag)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) || len(validateErrs) == 0 {
		return &FieldError{Field: field, Message: field + " is invalid"}
	}

	fe := validateErrs[0]

	return &FieldError{
		Field:   field,
		Message: message(field, fe.Tag(), fe.Param(), fe.Kind()),
	}
}

// fieldPath drops the root struct name from a validator namespace:
// "Request.title" becomes "title".
func fieldPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}
	return rest
}

func message(field, tag, param string, kind reflect.Kind) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if kind == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if kind == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(param), ", "))
	case "rfc3339":
		return fmt.Sprintf("%s must be a valid RFC 3339 date-time", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func isRFC3339(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	_, err := time.Parse(time.RFC3339, fl.Field().String())

	return err == nil
}
