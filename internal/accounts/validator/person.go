package validator

import (
	"errors"
	"fmt"
	"strings"

	"maitred/pkg/model"

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
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type PersonValidator struct {
	validate *validator.Validate
}

func NewPersonValidator() *PersonValidator {
	return &PersonValidator{validate: validator.New()}
}

func (v *PersonValidator) Validate(person *model.Person) error {
	return v.translate(v.validate.Struct(person))
}

func (v *PersonValidator) ValidateUpdate(update *model.PersonUpdate) error {
	return v.translate(v.validate.Struct(update))
}

func (v *PersonValidator) ValidateCredentials(creds *model.Credentials) error {
	return v.translate(v.validate.Struct(creds))
}

func (v *PersonValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	var out ValidationErrors
	for _, fieldErr := range validationErrs {
		message := fieldErr.Error()
		switch fieldErr.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", fieldErr.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", fieldErr.Field())
		case "alphanum":
			message = fmt.Sprintf("%s may only contain letters and digits", fieldErr.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param())
		}
		out = append(out, ValidationError{Field: fieldErr.Field(), Message: message})
	}
	return out
}
