package service

import (
	"errors"
	"net/http"
)

// AppError is the error type returned by services. Handlers map Code to an HTTP status.
type AppError struct {
	Code    string
	Message string
	Origin  error // underlying cause, if any
}

func (e *AppError) Error() string {
	if e.Origin != nil {
		return e.Message + ": " + e.Origin.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Origin
}

// Error codes
const (
	ErrInvalidInput = "INVALID_INPUT"
	ErrNotFound     = "NOT_FOUND"
	ErrUnauthorized = "UNAUTHORIZED"
	ErrForbidden    = "FORBIDDEN"
	ErrDuplicate    = "DUPLICATE"
	ErrDatabase     = "DATABASE_ERROR"
	ErrInternal     = "INTERNAL_ERROR"
)

func NewAppError(code, message string, origin error) *AppError {
	return &AppError{Code: code, Message: message, Origin: origin}
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: ErrInvalidInput, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: ErrNotFound, Message: message}
}

func NewDatabaseError(message string, origin error) *AppError {
	return &AppError{Code: ErrDatabase, Message: message, Origin: origin}
}

// IsErrorCode reports whether err is an AppError with the given code
func IsErrorCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatus converts an error code to an HTTP status code
func HTTPStatus(code string) int {
	switch code {
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
