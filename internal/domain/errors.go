package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies domain errors for the transport layer.
type ErrorCode string

const (
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeConflict ErrorCode = "CONFLICT"
	ErrCodeInvalid  ErrorCode = "INVALID"
)

// Error is a domain-level error carrying a code.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	// a wrapped domain sentinel is already described by Message
	var inner *Error
	if e.Err != nil && !errors.As(e.Err, &inner) {
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

func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

var (
	ErrUserNotFound   = NewError(ErrCodeNotFound, "user not found")
	ErrDuplicateEmail = NewError(ErrCodeConflict, "user with email already exists")
)

// DuplicateEmail returns an error that matches ErrDuplicateEmail and names the email.
func DuplicateEmail(email string) error {
	return WrapError(ErrCodeConflict, "user with email already exists: "+email, ErrDuplicateEmail)
}

// UserNotFound returns an error that matches ErrUserNotFound and names the id.
func UserNotFound(id int64) error {
	return WrapError(ErrCodeNotFound, fmt.Sprintf("user not found with id: %d", id), ErrUserNotFound)
}

// IsDomainError reports whether err carries the given code.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
