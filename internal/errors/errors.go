package errors

import (
	"errors"
	"fmt"
)

// Exit codes for awg-setup
const (
	ExitSuccess           = 0
	ExitGeneralError      = 1
	ExitValidation        = 2
	ExitNoFreePort        = 3
	ExitEngineUnavailable = 4
	ExitLaunchFailed      = 5
	ExitConfigError       = 6
)

// SetupError is the base error type for awg-setup
type SetupError struct {
	Code    int
	Message string
	Cause   error

	// Diagnostics holds captured context (config dump, engine log lines)
	// attached to launch failures. Printed after the message.
	Diagnostics string
}

func (e *SetupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SetupError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the exit code for this error
func (e *SetupError) ExitCode() int {
	return e.Code
}

// New creates a new SetupError
func New(code int, message string) *SetupError {
	return &SetupError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with a SetupError
func Wrap(code int, message string, cause error) *SetupError {
	return &SetupError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error constructors

// Validation returns an error for bad or missing input
func Validation(format string, args ...interface{}) *SetupError {
	return New(ExitValidation, fmt.Sprintf(format, args...))
}

// NoFreePort returns an error when the scan range is exhausted
func NoFreePort(message string) *SetupError {
	return New(ExitNoFreePort, message)
}

// PortOccupied returns an error for an explicitly requested port that is taken
func PortOccupied(port int) *SetupError {
	return New(ExitNoFreePort, fmt.Sprintf("port %d is already in a listening state", port))
}

// EngineUnavailable returns an error for engine install or daemon failures
func EngineUnavailable(message string, cause error) *SetupError {
	return Wrap(ExitEngineUnavailable, message, cause)
}

// Launch returns an error for an instance that failed to reach the running
// state. diagnostics carries the config dump and recent engine log lines.
func Launch(message string, cause error, diagnostics string) *SetupError {
	return &SetupError{
		Code:        ExitLaunchFailed,
		Message:     message,
		Cause:       cause,
		Diagnostics: diagnostics,
	}
}

// Config returns an error for config artifact synthesis failures
func Config(message string, cause error) *SetupError {
	return Wrap(ExitConfigError, message, cause)
}

// InstanceNotFound returns an error for a missing instance
func InstanceNotFound(name string) *SetupError {
	return New(ExitGeneralError, fmt.Sprintf("instance not found: %s", name))
}

// GetExitCode extracts the exit code from an error
func GetExitCode(err error) int {
	var setupErr *SetupError
	if errors.As(err, &setupErr) {
		return setupErr.ExitCode()
	}
	return ExitGeneralError
}

// GetDiagnostics extracts attached diagnostics from an error chain, if any
func GetDiagnostics(err error) string {
	var setupErr *SetupError
	if errors.As(err, &setupErr) {
		return setupErr.Diagnostics
	}
	return ""
}

// Is checks if an error is of a specific type
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
