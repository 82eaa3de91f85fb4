package domain

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// component codes look like ESP32-01 or SA-1
var kodePattern = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)

type Validation struct {
	validator *validator.Validate
}

func NewValidation() *Validation {
	v := validator.New()
	v.RegisterValidation("kode", validateKode)
	return &Validation{validator: v}
}

func validateKode(fl validator.FieldLevel) bool {
	return kodePattern.MatchString(fl.Field().String())
}

// ValidationError wraps the validator's FieldError
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (v ValidationError) Error() string {
	return fmt.Sprintf("Field '%s': %s", v.Field, v.Message)
}

// ValidationErrors is a slice of ValidationError
type ValidationErrors []ValidationError

// Messages converts the collection to plain strings for API responses
func (ve ValidationErrors) Messages() []string {
	msgs := make([]string, 0, len(ve))
	for _, e := range ve {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

func (v *Validation) Validate(i interface{}) ValidationErrors {
	var errors ValidationErrors

	err := v.validator.Struct(i)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return ValidationErrors{{Field: "", Message: err.Error()}}
		}
		for _, ve := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   ve.Field(),
				Message: fmt.Sprintf("failed on the '%s' tag", ve.Tag()),
			})
		}
	}

	return errors
}
