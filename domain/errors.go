package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeValidation   ErrorCode = "VALIDATION"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeUnroutable   ErrorCode = "UNROUTABLE"
	ErrCodeStorage      ErrorCode = "STORAGE"
	ErrCodePublish      ErrorCode = "PUBLISH"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidationError joins the violation messages collected for a command.
func NewValidationError(violations []string) *Error {
	return &Error{
		Code:    ErrCodeValidation,
		Message: "command validation failed: " + strings.Join(violations, ", "),
	}
}

// Common domain errors.
var (
	ErrProductNotFound  = NewError(ErrCodeNotFound, "product not found")
	ErrDuplicateName    = NewError(ErrCodeConflict, "product with this name already exists")
	ErrVersionConflict  = NewError(ErrCodeConflict, "product was modified concurrently")
	ErrUnknownEventKind = NewError(ErrCodeInvalid, "unknown event kind")
	ErrUnauthorized     = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrInvalidPayload   = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
