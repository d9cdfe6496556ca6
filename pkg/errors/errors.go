package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors (fatal at load time)
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid  ErrorCode = "CONFIG_INVALID"
	ErrInvalidPattern ErrorCode = "INVALID_PATTERN"

	// Resolution warnings (logged, never returned from a run)
	ErrImportMissing ErrorCode = "IMPORT_MISSING"
	ErrImportCycle   ErrorCode = "IMPORT_CYCLE"

	// Reconciliation errors
	ErrIntegrity       ErrorCode = "INTEGRITY"
	ErrReferenceLoad   ErrorCode = "REFERENCE_LOAD"
	ErrSourceLoad      ErrorCode = "SOURCE_LOAD"
	ErrSourceMalformed ErrorCode = "SOURCE_MALFORMED"

	// Output errors
	ErrVariant   ErrorCode = "VARIANT"
	ErrFileWrite ErrorCode = "FILE_WRITE"
	ErrDirCreate ErrorCode = "DIR_CREATE"
	ErrLocked    ErrorCode = "LOCKED"

	// Cache errors
	ErrCache ErrorCode = "CACHE"
)

// LocError represents a structured error with code and details
type LocError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *LocError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *LocError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *LocError) Is(target error) bool {
	var targetErr *LocError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new LocError with the given code and message
func New(code ErrorCode, message string) *LocError {
	return &LocError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new LocError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *LocError {
	return &LocError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a LocError
func Wrap(err error, code ErrorCode, message string) *LocError {
	if err == nil {
		return nil
	}
	return &LocError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *LocError {
	if err == nil {
		return nil
	}
	return &LocError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *LocError) WithDetail(key string, value interface{}) *LocError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *LocError) WithDetails(details map[string]interface{}) *LocError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var locErr *LocError
	if errors.As(err, &locErr) {
		return locErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a LocError
func GetErrorCode(err error) ErrorCode {
	var locErr *LocError
	if errors.As(err, &locErr) {
		return locErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a LocError
func GetErrorDetails(err error) map[string]interface{} {
	var locErr *LocError
	if errors.As(err, &locErr) {
		return locErr.Details
	}
	return nil
}

// IsFatal reports whether an error must abort a run. Resolution warnings are
// the only recoverable codes.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch GetErrorCode(err) {
	case ErrImportMissing, ErrImportCycle:
		return false
	default:
		return true
	}
}

// Process exit statuses, one per error category
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitConfig    = 2
	ExitInput     = 3
	ExitIntegrity = 4
	ExitOutput    = 5
	ExitLocked    = 6
)

// ExitCode maps an error to the exit status of the command that returned it.
// Recoverable warnings never fail the process.
func ExitCode(err error) int {
	if !IsFatal(err) {
		return ExitOK
	}
	switch GetErrorCode(err) {
	case ErrConfigLoad, ErrConfigParse, ErrConfigInvalid, ErrInvalidPattern:
		return ExitConfig
	case ErrInvalidInput, ErrNotFound, ErrReferenceLoad, ErrSourceLoad, ErrSourceMalformed:
		return ExitInput
	case ErrIntegrity:
		return ExitIntegrity
	case ErrVariant, ErrFileWrite, ErrDirCreate, ErrCache:
		return ExitOutput
	case ErrLocked:
		return ExitLocked
	default:
		return ExitFailure
	}
}
