package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"contactnorm/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	parts := make([]string, len(v))
	for i, e := range v {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(parts, "; "))
}

// ContactValidator is the last gate before a record reaches any sink.
type ContactValidator struct {
	validate *validator.Validate
}

func NewContactValidator() *ContactValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return jsonName(f.Tag.Get("json"), f.Name)
	})
	return &ContactValidator{validate: v}
}

func (v *ContactValidator) Validate(c *model.Contact) error {
	return v.check(c)
}

func (v *ContactValidator) ValidateRejection(r *model.Rejection) error {
	return v.check(r)
}

func (v *ContactValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	validationErrors := make(ValidationErrors, 0, len(errs))

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: messageFor(err),
		})
	}

	return validationErrors
}

func messageFor(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "e164":
		return fmt.Sprintf("must be an E.164 phone number, got %q", err.Value())
	case "datetime":
		return fmt.Sprintf("must be a date in %s layout, got %q", err.Param(), err.Value())
	case "max":
		return fmt.Sprintf("must be at most %s characters", err.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}

// jsonName reports fields under their JSON names so messages match what API
// callers sent.
func jsonName(tag, fallback string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return fallback
	}
	return name
}
