// Package errors provides application-level error types and utilities.
// It defines the failure kinds a dashboard command or poll can end in: validation,
// transport, server and parse errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation_error"
	ErrorTypeTransport  ErrorType = "transport_error"
	ErrorTypeServer     ErrorType = "server_error"
	ErrorTypeParse      ErrorType = "parse_error"
	ErrorTypeInternal   ErrorType = "internal_error"
)

// DefaultServerMessage is used when the backend rejects a request without saying why.
const DefaultServerMessage = "Unknown error."

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	// Code is the HTTP status used when the error is reported by the mirror API.
	Code    int    `json:"code"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	// UpstreamStatus is the status code the ticket service answered with, if any.
	UpstreamStatus int `json:"upstream_status,omitempty"`

	cause error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.cause
}

// NewValidationError creates a validation error for the offending form field.
func NewValidationError(field string, message ...string) *AppError {
	msg := fmt.Sprintf("Please enter a valid value for %s", field)
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: msg,
		Code:    http.StatusBadRequest,
		Field:   field,
	}
}

// NewTransportError creates an error for a request that never got an HTTP answer.
func NewTransportError(message string, cause error) *AppError {
	appErr := &AppError{
		Type:    ErrorTypeTransport,
		Message: message,
		Code:    http.StatusBadGateway,
		cause:   cause,
	}
	if cause != nil {
		appErr.Details = cause.Error()
	}
	return appErr
}

// NewServerError creates an error for a request the ticket service answered but rejected.
// 4xx statuses are passed through to mirror API callers, everything else becomes 502.
func NewServerError(upstreamStatus int, message string) *AppError {
	if message == "" {
		message = DefaultServerMessage
	}
	code := http.StatusBadGateway
	if upstreamStatus >= 400 && upstreamStatus < 500 {
		code = upstreamStatus
	}
	return &AppError{
		Type:           ErrorTypeServer,
		Message:        message,
		Code:           code,
		UpstreamStatus: upstreamStatus,
	}
}

// NewParseError creates an error for a response body that does not match its schema.
func NewParseError(message string, cause error) *AppError {
	appErr := &AppError{
		Type:    ErrorTypeParse,
		Message: message,
		Code:    http.StatusBadGateway,
		cause:   cause,
	}
	if cause != nil {
		appErr.Details = cause.Error()
	}
	return appErr
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Code:    http.StatusInternalServerError,
		Details: detail,
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// TypeOf reports the ErrorType of err, or ErrorTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeValidation
}

// IsTransportError checks if the error is a transport error
func IsTransportError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeTransport
}

// IsServerError checks if the error is a server error
func IsServerError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeServer
}

// IsParseError checks if the error is a parse error
func IsParseError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeParse
}
