package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrBatchTooLarge indicates a batch request above the configured size
type ErrBatchTooLarge struct {
	Size int
	Max  int
}

func (e *ErrBatchTooLarge) Error() string {
	return fmt.Sprintf("batch of %d profiles exceeds maximum of %d", e.Size, e.Max)
}

// ErrInvalidProfile indicates a profile whose root is not a JSON object
type ErrInvalidProfile struct {
	Index int
	Cause error
}

func (e *ErrInvalidProfile) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("profile %d is not a JSON object: %v", e.Index, e.Cause)
	}
	return fmt.Sprintf("profile is not a JSON object: %v", e.Cause)
}

func (e *ErrInvalidProfile) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrValidation, *ErrInvalidProfile:
		return http.StatusBadRequest
	case *ErrBatchTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// extractValidationErrors converts validator errors into an ErrValidation
// describing the first failing field.
func extractValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "request", Message: "invalid request"}
}
