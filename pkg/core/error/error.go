// File: error.go
// Title: Core Error Implementation
// Description: Implements the coded Error type with cause, operation and
//              detail metadata. Compatible with errors.Is/As through Unwrap.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error represents a structured error with a code and context
type Error struct {
	message   string
	cause     error
	code      Code
	operation string
	details   map[string]interface{}
}

// New creates a new Error with the given message
func New(message string) *Error {
	return &Error{
		message: message,
		code:    CodeUnknown,
		details: make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with additional context. The code and
// details of a wrapped *Error are inherited. Wrap returns nil for a nil err.
func Wrap(err error, message string) *Error {
	if err == nil {
		return nil
	}

	wrapped := &Error{
		message: message,
		cause:   err,
		code:    CodeUnknown,
		details: make(map[string]interface{}),
	}

	var inner *Error
	if errors.As(err, &inner) {
		wrapped.code = inner.code
		for k, v := range inner.details {
			wrapped.details[k] = v
		}
	}
	return wrapped
}

// Error implements the standard error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.message, e.cause.Error())
	}
	return e.message
}

// Unwrap returns the underlying cause for error unwrapping
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCode sets the error code
func (e *Error) WithCode(code Code) *Error {
	e.code = code
	return e
}

// WithOperation records the operation that failed
func (e *Error) WithOperation(operation string) *Error {
	e.operation = operation
	return e
}

// WithDetail adds a detail value
func (e *Error) WithDetail(key string, value interface{}) *Error {
	e.details[key] = value
	return e
}

// Code returns the error code
func (e *Error) Code() Code {
	return e.code
}

// Operation returns the failed operation
func (e *Error) Operation() string {
	return e.operation
}

// Details returns a copy of the detail map
func (e *Error) Details() map[string]interface{} {
	out := make(map[string]interface{}, len(e.details))
	for k, v := range e.details {
		out[k] = v
	}
	return out
}

// Message returns the message without the cause
func (e *Error) Message() string {
	return e.message
}

// String returns a verbose representation including code and operation
func (e *Error) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.code, e.Error())
	if e.operation != "" {
		fmt.Fprintf(&sb, " (operation: %s)", e.operation)
	}
	if len(e.details) > 0 {
		keys := make([]string, 0, len(e.details))
		for k := range e.details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%v", k, e.details[k]))
		}
		fmt.Fprintf(&sb, " {%s}", strings.Join(parts, ", "))
	}
	return sb.String()
}

// MarshalJSON serializes the error for API responses and logs
func (e *Error) MarshalJSON() ([]byte, error) {
	data := map[string]interface{}{
		"message": e.Error(),
		"code":    e.code,
	}
	if e.operation != "" {
		data["operation"] = e.operation
	}
	if len(e.details) > 0 {
		data["details"] = e.details
	}
	return json.Marshal(data)
}

// GetCode returns the code of the outermost *Error in err's chain, or
// CodeUnknown when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return CodeUnknown
}

// HasCode reports whether err carries the given code
func HasCode(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
