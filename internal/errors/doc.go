// Package apperrors defines the structured error types used across gcstats,
// separating caller mistakes (invalid registration arguments, bad
// configuration) from failures raised by a registered consumer while a
// cycle report is being delivered.
//
// Error Wrapping Guidelines:
// Errors are wrapped with fmt.Errorf and %w. Every type that carries a cause
// implements Unwrap() so errors.Is() and errors.As() see through it.
package apperrors
