package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrKind classifies an application error so the HTTP boundary can map it to
// a status without inspecting message text.
type ErrKind int

const (
	KindInternal ErrKind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
	KindConflict
)

// Machine-readable error codes carried in the response envelope.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeEmailExists  = "EMAIL_EXISTS"
	CodeInternal     = "INTERNAL_ERROR"
)

// AppError is a classified error produced at the point of failure.
type AppError struct {
	Kind    ErrKind
	Code    string
	Message string
	Err     error
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

// BadRequest builds a client-input error.
func BadRequest(message string) *AppError {
	return &AppError{Kind: KindBadRequest, Code: CodeBadRequest, Message: message}
}

// Unauthorized builds a missing/invalid-session error.
func Unauthorized(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: CodeUnauthorized, Message: message}
}

// NotFound builds a no-matching-row error.
func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

// Conflict builds a duplicate-resource error with an explicit code.
func Conflict(code, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

// Internal wraps an unexpected store or transform failure with a descriptive
// message; the cause stays attached for logging.
func Internal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: CodeInternal, Message: message, Err: err}
}

// AsAppError extracts the AppError from err, wrapping unclassified errors as
// internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected error", err)
}

// HTTPStatus maps an error kind to its response status.
func (k ErrKind) HTTPStatus() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
