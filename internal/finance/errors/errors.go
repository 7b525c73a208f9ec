package errors

import (
	"errors"
	"strings"
)

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidationError matches both a single ValidationError and ValidationErrors.
func IsValidationError(err error) bool {
	var validationError *ValidationError
	if errors.As(err, &validationError) {
		return true
	}
	return IsValidationErrors(err)
}

var ErrNameRequired = NewValidationError("Name is required")
var ErrInvalidType = NewValidationError("Type must be one of Cash, Card, Online, Other")

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	return "multiple validation errors: " + strings.Join(ve.Messages(), "; ")
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

func (ve *ValidationErrors) Messages() []string {
	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = err.Error()
	}
	return messages
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	return errors.As(err, &validationErrors)
}

// Messages flattens a validation error into the list shown to the user.
func Messages(err error) []string {
	var validationErrors *ValidationErrors
	if errors.As(err, &validationErrors) {
		return validationErrors.Messages()
	}
	if err == nil {
		return nil
	}
	return []string{err.Error()}
}
