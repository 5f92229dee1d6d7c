package services

import (
	"fmt"

	"github.com/publiceyeusa/publiceye/internal/common"
)

// FieldError reports an invalid request field. It matches
// common.ErrorValidation under errors.Is.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return common.ErrorValidation }

func fieldError(field, msg string) error {
	return &FieldError{Field: field, Message: msg}
}
