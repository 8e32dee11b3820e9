package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorCode int

const (
	ErrInternalServer ErrorCode = iota + 1000
	ErrInvalidInput
	ErrInvalidRequestData
	ErrNotFound
	ErrAlreadyExists
	ErrUnauthorized
	ErrForbidden
	ErrTokenExpired
	ErrInvalidTokenFormat
	ErrMissingAuthorizationHeader
	ErrCreateFailed
	ErrUpdateFailed
	ErrDeleteFailed
	ErrGetFailed
)

// Scheduling codes.
const (
	ErrReadOnlySlot ErrorCode = iota + 2000
	ErrInvalidTransition
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// CodeOf returns the AppError code carried anywhere in err's chain, or
// ErrInternalServer when there is none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternalServer
}
