package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for the resolution pipeline. Codes marked fatal abort the
// whole resolution; everything else is recorded as an absence entry in
// the result set and never surfaces as an error value at all.
const (
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Config resolution errors
	ErrConfigPathNotFound ErrorCode = "CONFIG_PATH_NOT_FOUND"
	ErrConfigLocationType ErrorCode = "CONFIG_LOCATION_TYPE"
	ErrConfigHTTPStatus   ErrorCode = "CONFIG_HTTP_STATUS"
	ErrConfigContentType  ErrorCode = "CONFIG_CONTENT_TYPE"
	ErrArchiveLayout      ErrorCode = "CONFIG_ARCHIVE_LAYOUT"
	ErrArchiveExtract     ErrorCode = "CONFIG_ARCHIVE_EXTRACT"

	// Settings errors
	ErrSettingsLoad ErrorCode = "SETTINGS_LOAD"

	// Template generation errors
	ErrConfigExists ErrorCode = "CONFIG_EXISTS"

	// Environment errors
	ErrDockerMount ErrorCode = "DOCKER_MOUNT"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// fatalCodes are the conditions under which no partial result set is
// meaningful. The CLI maps these to a non-zero exit; nothing below the
// top level ever terminates the process.
var fatalCodes = map[ErrorCode]bool{
	ErrConfigPathNotFound: true,
	ErrConfigLocationType: true,
	ErrConfigHTTPStatus:   true,
	ErrConfigContentType:  true,
	ErrArchiveLayout:      true,
	ErrConfigExists:       true,
	ErrDockerMount:        true,
	ErrFileWrite:          true,
}

// SgrepError represents a structured error with code and details
type SgrepError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *SgrepError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *SgrepError) Unwrap() error {
	return e.Wrapped
}

// Is compares errors by code
func (e *SgrepError) Is(target error) bool {
	var targetErr *SgrepError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new SgrepError with the given code and message
func New(code ErrorCode, message string) *SgrepError {
	return &SgrepError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new SgrepError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *SgrepError {
	return &SgrepError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a SgrepError
func Wrap(err error, code ErrorCode, message string) *SgrepError {
	if err == nil {
		return nil
	}
	return &SgrepError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *SgrepError {
	if err == nil {
		return nil
	}
	return &SgrepError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a key-value detail to the error
func (e *SgrepError) WithDetail(key string, value interface{}) *SgrepError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks whether err carries the given code
func IsErrorCode(err error, code ErrorCode) bool {
	var sgrepErr *SgrepError
	if errors.As(err, &sgrepErr) {
		return sgrepErr.Code == code
	}
	return false
}

// GetErrorCode extracts the code from an error, or ErrUnknown
func GetErrorCode(err error) ErrorCode {
	var sgrepErr *SgrepError
	if errors.As(err, &sgrepErr) {
		return sgrepErr.Code
	}
	return ErrUnknown
}

// IsFatal reports whether err is one of the conditions that abort the
// whole resolution rather than degrading to an absence entry.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return fatalCodes[GetErrorCode(err)]
}
