package validator

import (
	"fmt"
	"strings"

	"maitred/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

type MenuItemValidator struct {
	validate *validator.Validate
}

func NewMenuItemValidator() *MenuItemValidator {
	return &MenuItemValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *MenuItemValidator) Validate(item *model.MenuItem) error {
	err := v.validate.Struct(item)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "unknown", Message: err.Error()}}
	}

	return translateValidationErrors(validationErrors)
}

func (v *MenuItemValidator) ValidateUpdate(update *model.MenuItemUpdate) error {
	err := v.validate.Struct(update)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return ValidationErrors{{Field: "unknown", Message: err.Error()}}
	}

	return translateValidationErrors(validationErrors)
}

func translateValidationErrors(validationErrors validator.ValidationErrors) ValidationErrors {
	var result ValidationErrors

	for _, fieldError := range validationErrors {
		var message string

		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "min":
			message = fmt.Sprintf("Must be at least %s", fieldError.Param())
		case "max":
			message = fmt.Sprintf("Must be at most %s", fieldError.Param())
		case "oneof":
			message = fmt.Sprintf("Must be one of: %s", fieldError.Param())
		default:
			message = fmt.Sprintf("Failed validation: %s", fieldError.Tag())
		}

		result = append(result, ValidationError{
			Field:   fieldError.Field(),
			Message: message,
		})
	}

	return result
}
