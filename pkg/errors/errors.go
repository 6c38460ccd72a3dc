// Package errors provides the structured error type used across cleanfiles.
//
// Every error carries a stable ErrorCode so callers (and tests) can tell a
// configuration problem from a filesystem failure without matching on
// message text. Filesystem failures always carry the offending path in
// Details["path"].
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrInputClosed  ErrorCode = "INPUT_CLOSED"
	ErrLocked       ErrorCode = "LOCKED"

	// Configuration errors
	ErrConfigLoad       ErrorCode = "CONFIG_LOAD"
	ErrConfigParse      ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrDirAccess        ErrorCode = "DIR_ACCESS"
	ErrPermissionFormat ErrorCode = "PERMISSION_FORMAT"

	// Filesystem errors
	ErrFileRead   ErrorCode = "FILE_READ"
	ErrFileDelete ErrorCode = "FILE_DELETE"
	ErrFileRename ErrorCode = "FILE_RENAME"
	ErrFileChmod  ErrorCode = "FILE_CHMOD"
	ErrFileMove   ErrorCode = "FILE_MOVE"
	ErrFileCopy   ErrorCode = "FILE_COPY"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

var configurationCodes = map[ErrorCode]bool{
	ErrConfigLoad:       true,
	ErrConfigParse:      true,
	ErrConfigInvalid:    true,
	ErrDirAccess:        true,
	ErrPermissionFormat: true,
}

var filesystemCodes = map[ErrorCode]bool{
	ErrFileRead:   true,
	ErrFileDelete: true,
	ErrFileRename: true,
	ErrFileChmod:  true,
	ErrFileMove:   true,
	ErrFileCopy:   true,
	ErrDirCreate:  true,
}

// CleanError represents a structured error with code and details
type CleanError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CleanError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CleanError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a CleanError with the same code
func (e *CleanError) Is(target error) bool {
	var targetErr *CleanError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CleanError with the given code and message
func New(code ErrorCode, message string) *CleanError {
	return &CleanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CleanError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CleanError {
	return &CleanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CleanError
func Wrap(err error, code ErrorCode, message string) *CleanError {
	if err == nil {
		return nil
	}
	return &CleanError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CleanError {
	if err == nil {
		return nil
	}
	return &CleanError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// PathError wraps a failed filesystem operation on path. The path is kept
// both in the message and in Details["path"].
func PathError(err error, code ErrorCode, op, path string) *CleanError {
	if err == nil {
		return nil
	}
	return Wrapf(err, code, "%s %s", op, path).WithDetail("path", path)
}

// WithDetail adds a detail to the error
func (e *CleanError) WithDetail(key string, value interface{}) *CleanError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cleanErr *CleanError
	if errors.As(err, &cleanErr) {
		return cleanErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CleanError
func GetErrorCode(err error) ErrorCode {
	var cleanErr *CleanError
	if errors.As(err, &cleanErr) {
		return cleanErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CleanError
func GetErrorDetails(err error) map[string]interface{} {
	var cleanErr *CleanError
	if errors.As(err, &cleanErr) {
		return cleanErr.Details
	}
	return nil
}

// IsConfigurationError reports whether err rejects the run before any
// filesystem mutation (bad config file, inaccessible directory, malformed
// value).
func IsConfigurationError(err error) bool {
	return configurationCodes[GetErrorCode(err)]
}

// IsFilesystemError reports whether err is a failed read or mutation of a
// file mid-pipeline.
func IsFilesystemError(err error) bool {
	return filesystemCodes[GetErrorCode(err)]
}
