// Package apperr defines the error taxonomy shared by the workflow engine and
// its transports. Every business-rule violation surfaces as an *AppError with a
// Code the HTTP layer can map without string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Code categorizes an application error.
type Code string

const (
	CodeValidation         Code = "validation"
	CodeNotFound           Code = "not_found"
	CodeAlreadyExists      Code = "already_exists"
	CodeInvalidTransition  Code = "invalid_transition"
	CodeUnauthorized       Code = "unauthorized"
	CodeAccountDisabled    Code = "account_disabled"
	CodePaymentNotVerified Code = "payment_not_verified"
	CodeJobNotAvailable    Code = "job_not_available"
	CodeInternal           Code = "internal"
)

// AppError is a structured error with a code, message and optional cause.
type AppError struct {
	Code    Code
	Message string
	// Field names the offending input for validation errors.
	Field string
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error {
	return e.Cause
}

func newf(code Code, format string, args ...any) *AppError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &AppError{Code: code, Message: msg}
}

// Validation creates a validation error.
func Validation(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message}
}

// ValidationField creates a validation error for a specific input field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Field: field}
}

// NotFoundf creates a not-found error with a formatted message.
func NotFoundf(format string, args ...any) *AppError {
	return newf(CodeNotFound, format, args...)
}

// AlreadyExistsf creates an already-exists error with a formatted message.
func AlreadyExistsf(format string, args ...any) *AppError {
	return newf(CodeAlreadyExists, format, args...)
}

// InvalidTransitionf creates an invalid-transition error with a formatted message.
func InvalidTransitionf(format string, args ...any) *AppError {
	return newf(CodeInvalidTransition, format, args...)
}

// Unauthorizedf creates an unauthorized error with a formatted message.
func Unauthorizedf(format string, args ...any) *AppError {
	return newf(CodeUnauthorized, format, args...)
}

// AccountDisabled creates the error returned for writes by disabled users.
func AccountDisabled(userID int64) *AppError {
	return newf(CodeAccountDisabled, "account %d is disabled", userID)
}

// PaymentNotVerified creates the error returned when an unverified employer posts a job.
func PaymentNotVerified(message string) *AppError {
	return &AppError{Code: CodePaymentNotVerified, Message: message}
}

// JobNotAvailablef creates the error returned when applying to a non-active job.
func JobNotAvailablef(format string, args ...any) *AppError {
	return newf(CodeJobNotAvailable, format, args...)
}

// Internal wraps an unexpected failure.
func Internal(err error, message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Cause: err}
}

// Wrap wraps err with the given code, preserving the cause.
func Wrap(err error, code Code, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// CodeOf returns the code of the first AppError in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func isCode(err error, code Code) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return isCode(err, CodeValidation) }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return isCode(err, CodeNotFound) }

// IsAlreadyExists reports whether err is an already-exists error.
func IsAlreadyExists(err error) bool { return isCode(err, CodeAlreadyExists) }

// IsInvalidTransition reports whether err is an invalid-transition error.
func IsInvalidTransition(err error) bool { return isCode(err, CodeInvalidTransition) }

// IsUnauthorized reports whether err is an unauthorized error.
func IsUnauthorized(err error) bool { return isCode(err, CodeUnauthorized) }

// IsAccountDisabled reports whether err is an account-disabled error.
func IsAccountDisabled(err error) bool { return isCode(err, CodeAccountDisabled) }

// IsPaymentNotVerified reports whether err is a payment-not-verified error.
func IsPaymentNotVerified(err error) bool { return isCode(err, CodePaymentNotVerified) }

// IsJobNotAvailable reports whether err is a job-not-available error.
func IsJobNotAvailable(err error) bool { return isCode(err, CodeJobNotAvailable) }
