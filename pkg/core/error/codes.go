// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used by the ambient layers of mIDE
//              (configuration, storage, server and command line).
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	CodeUnknown       Code = "UNKNOWN"
	CodeInternal      Code = "INTERNAL"
	CodeNotFound      Code = "NOT_FOUND"
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeDatabaseError Code = "DATABASE_ERROR"
	CodeIOError       Code = "IO_ERROR"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// IsValid reports whether c is one of the defined codes
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeNotFound, CodeInvalidInput,
		CodeConfigError, CodeDatabaseError, CodeIOError:
		return true
	}
	return false
}
