// Package errors provides the unified error type and factory functions for
// the SupplyGuard-Compliance platform.  Every layer (domain, application,
// infrastructure, interfaces) uses AppError as the single carrier for
// structured error information, enabling consistent HTTP responses, logging,
// and monitoring.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// AppError is the single structured error type used throughout the platform.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeSupplierNotFound, "supplier 42 not found")
//	return errors.Wrap(repoErr, errors.CodeDatabaseError, "failed to load supplier")
type AppError struct {
	// Code is the typed error code identifying the failure category.
	Code ErrorCode

	// Message is the primary human-readable description, suitable for
	// inclusion in API responses.
	Message string

	// Detail carries supplementary context (query parameters, entity IDs)
	// that aids debugging without leaking internals to end users.
	Detail string

	// Cause is the underlying error, enabling errors.Is / errors.As
	// traversal of the full chain.
	Cause error

	// Stack contains the call stack captured at the point of creation.
	// It is intentionally not included in Error() output.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>"; the detail segment is omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// Safe to call on a nil pointer.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf constructs a fresh AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.  If err is nil,
// Wrap returns nil so it can be used inline.  When err is already an
// *AppError and code is CodeUnknown, the original code is preserved.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsNotFound reports whether any error in err's chain carries a not-found code.
func IsNotFound(err error) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) {
			switch ae.Code {
			case ErrCodeNotFound, ErrCodeEntityNotFound, ErrCodeSupplierNotFound, ErrCodeAssessmentNotFound:
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsValidation reports whether err carries the validation code.
func IsValidation(err error) bool { return IsCode(err, ErrCodeValidation) }

// IsConflict reports whether err carries a conflict code.
func IsConflict(err error) bool {
	return IsCode(err, ErrCodeConflict) || IsCode(err, ErrCodeEntityDuplicate) || IsCode(err, ErrCodeSupplierDuplicate)
}

// IsUnauthorized reports whether err carries the unauthorized code.
func IsUnauthorized(err error) bool { return IsCode(err, ErrCodeUnauthorized) }

// IsForbidden reports whether err carries the forbidden code.
func IsForbidden(err error) bool { return IsCode(err, ErrCodeForbidden) }

// GetCode extracts the ErrorCode from the first *AppError found in err's
// chain.  If no *AppError is present, CodeUnknown is returned.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// NotFound constructs an ErrCodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, Stack: captureStack(1)}
}

// InvalidParam constructs an ErrCodeValidation AppError.
func InvalidParam(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Stack: captureStack(1)}
}

// Unauthorized constructs an ErrCodeUnauthorized AppError.
func Unauthorized(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthorized, Message: message, Stack: captureStack(1)}
}

// Forbidden constructs an ErrCodeForbidden AppError.
func Forbidden(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message, Stack: captureStack(1)}
}

// Internal constructs an ErrCodeInternal AppError.  Use for unexpected
// server-side failures where no more specific code applies.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Stack: captureStack(1)}
}

// Conflict constructs an ErrCodeConflict AppError.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message, Stack: captureStack(1)}
}
