package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts go-playground/validator to echo.Validator so the
// handlers can validate bound request DTOs (sync, escalation, voice, rag)
// through their struct tags.
type CustomValidator struct {
	v *validator.Validate
}

// New creates a CustomValidator ready to assign to echo.Echo.Validator.
func New() *CustomValidator {
	return &CustomValidator{v: validator.New()}
}

// Validate checks the struct tags of a bound request DTO.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
