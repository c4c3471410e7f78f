package symcore

import (
	"errors"
	"fmt"
)

// ============================================================
// Errors
// ============================================================

// ErrorCode identifies the category of a kernel failure.
type ErrorCode string

const (
	CodeInvalidArgumentIndex     ErrorCode = "INVALID_ARGUMENT_INDEX"
	CodeMalformedCoefficientPull ErrorCode = "MALFORMED_COEFFICIENT_PULL"
	CodeNonNormalizable          ErrorCode = "NON_NORMALIZABLE"
	CodeResourceExhausted        ErrorCode = "RESOURCE_EXHAUSTED"
	CodeArityMismatch            ErrorCode = "ARITY_MISMATCH"
	CodeInvalidRequest           ErrorCode = "INVALID_REQUEST"
	CodeUnknownTool              ErrorCode = "UNKNOWN_TOOL"
)

// Internal reports whether the code marks a broken kernel invariant rather
// than bad input.
func (c ErrorCode) Internal() bool {
	return c == CodeMalformedCoefficientPull || c == CodeArityMismatch
}

// Error is the single structured error type returned by the kernel.
// Constructors that cannot return an error panic with an *Error instead;
// NewMul and HandleToolCall convert those panics back into values.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an *Error with a formatted message.
func NewError(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a code and message to an underlying error. A nil cause
// yields nil.
func WrapError(cause error, code ErrorCode, message string) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: cause}
}

// IsCode reports whether any *Error in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Code == code {
				return true
			}
			err = e.Cause
			continue
		}
		return false
	}
	return false
}

// CodeOf returns the code of the outermost *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// recoverError converts a kernel panic carrying an *Error into a returned
// error. Any other panic value is re-raised.
func recoverError(err *error) {
	rec := recover()
	if rec == nil {
		return
	}
	if e, ok := rec.(*Error); ok {
		*err = e
		return
	}
	panic(rec)
}
