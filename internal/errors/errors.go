package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the gcstats CLI.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the run was interrupted (e.g., SIGINT).
)

// ErrInvalidArgument is the sentinel matched by every InvalidArgumentError.
// Callers test for it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError reports a registration call made without a usable
// callable. It is returned synchronously; nothing is armed or replaced.
type InvalidArgumentError struct {
	// Argument names the offending parameter.
	Argument string
	// Message explains why the argument was rejected.
	Message string
}

// Error returns a formatted message describing the rejected argument.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Argument, e.Message)
}

// Is reports whether target is ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NewInvalidArgument creates an InvalidArgumentError with a formatted message.
func NewInvalidArgument(argument, format string, a ...any) error {
	return &InvalidArgumentError{Argument: argument, Message: fmt.Sprintf(format, a...)}
}

// ConsumerError wraps a failure raised by the registered consumer while a
// cycle report was being delivered. Seq identifies the report.
type ConsumerError struct {
	// Seq is the delivery sequence number of the report.
	Seq uint64
	// Cause is the returned error, or the recovered panic value as an error.
	Cause error
}

// Error returns the consumer failure message with the report sequence.
func (e *ConsumerError) Error() string {
	return fmt.Sprintf("gc stats consumer failed on report %d: %v", e.Seq, e.Cause)
}

// Unwrap returns the underlying consumer failure.
func (e *ConsumerError) Unwrap() error { return e.Cause }

// PanicError carries a value recovered from a panicking callback.
type PanicError struct {
	Value any
}

// Error formats the recovered value.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the recovered value when it is itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// ConfigError represents a user configuration error, such as invalid flags or
// values. The CLI cannot proceed until it is fixed.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
