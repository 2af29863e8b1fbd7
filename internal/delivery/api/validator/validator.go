// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"reflect"
	"strings"

	domainerrors "miniblog/internal/domain/errors"
	"miniblog/internal/errors"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a JSON field name to its failed rules.
type FieldErrors map[string][]string

// ValidationError is returned when a request body fails its struct tags.
// It matches domainerrors.ErrValidationFailed with errors.Is.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return domainerrors.ErrValidationFailed.Error()
}

func (e *ValidationError) Is(target error) bool {
	return target == domainerrors.ErrValidationFailed
}

func (e *ValidationError) HTTPCode() int     { return domainerrors.ErrValidationFailed.HTTPCode() }
func (e *ValidationError) ErrorCode() string { return domainerrors.ErrValidationFailed.ErrorCode() }
func (e *ValidationError) Message() string   { return domainerrors.ErrValidationFailed.Message() }
func (e *ValidationError) Details() string   { return "" }

// FieldDetails exposes the per-field failures for the error envelope.
func (e *ValidationError) FieldDetails() any {
	return e.Fields
}

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their json tag.
func New() *CustomValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}

		return name
	})

	return &CustomValidator{validate: validate}
}

// Validate runs the struct tag rules on i.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.WithStack(err)
	}

	fields := make(FieldErrors, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = append(fields[fe.Field()], describe(fe))
	}

	return &ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "uuid":
		return "must be a valid UUID"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
