package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes surfaced to API clients
const (
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeConflict         = "CONFLICT"
	CodeInvalidState     = "INVALID_STATE"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError with the same code and message,
// so sentinel errors still match after WithDetail or wrapping.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewAppError creates a new AppError
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// NotFound creates a 404 error for unknown users, rides or participations
func NotFound(message string, err error) *AppError {
	return NewAppError(CodeNotFound, message, http.StatusNotFound, err)
}

// Validation creates a 422 error for missing or malformed input
func Validation(message string, err error) *AppError {
	return NewAppError(CodeValidation, message, http.StatusUnprocessableEntity, err)
}

// Conflict creates a 422 error for duplicates
func Conflict(message string, err error) *AppError {
	return NewAppError(CodeConflict, message, http.StatusUnprocessableEntity, err)
}

// InvalidState creates a 422 error for a transition the current status forbids
func InvalidState(message string, err error) *AppError {
	return NewAppError(CodeInvalidState, message, http.StatusUnprocessableEntity, err)
}

// CapacityExceeded creates a 422 error for insufficient remaining seats
func CapacityExceeded(message string, err error) *AppError {
	return NewAppError(CodeCapacityExceeded, message, http.StatusUnprocessableEntity, err)
}

// Internal creates a 500 error
func Internal(message string, err error) *AppError {
	return NewAppError(CodeInternal, message, http.StatusInternalServerError, err)
}

// HasCode reports whether err is an AppError carrying code
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetAppError attempts to convert an error to AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	// Return generic internal error if not an AppError
	return Internal("An unexpected error occurred", err)
}

// WithDetail returns a copy of appErr carrying err as its cause. Sentinels
// are shared values and must not be mutated.
func WithDetail(appErr *AppError, err error) *AppError {
	if appErr == nil {
		return nil
	}
	return &AppError{
		Code:    appErr.Code,
		Message: appErr.Message,
		Status:  appErr.Status,
		Err:     err,
	}
}
