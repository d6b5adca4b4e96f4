// Package errs defines the typed error hierarchy used across the engine.
//
// The categories mirror the error-handling design: a user command throwing is
// never fatal to the driver, a failed linearization is the one failure signal
// surfaced to the external harness, and an engine invariant violation is
// always fatal and never suppressed.
package errs

import "fmt"

// UserCommandError wraps an error raised by user code outside a
// real_command: a failing setup callback, or an argument guard that does not
// compile or evaluate. Check returns it and the run stops. Errors returned
// by real_command are not wrapped in it; they are bound as exception
// outcomes and judged by the model.
type UserCommandError struct {
	Command string
	Handle  string
	Cause   error
}

func (e *UserCommandError) Error() string {
	return fmt.Sprintf("command %s (%s) raised: %v", e.Command, e.Handle, e.Cause)
}

func (e *UserCommandError) Unwrap() error { return e.Cause }

// NewUserCommandError wraps cause as a UserCommandError.
func NewUserCommandError(command, handle string, cause error) *UserCommandError {
	return &UserCommandError{Command: command, Handle: handle, Cause: cause}
}

// LinearizationError is raised when no interleaving of a program satisfies
// every postcondition and the terminal invariant. It is the sole failure
// signal the driver surfaces to the external property harness.
type LinearizationError struct {
	Message     string
	Sequential  string
	Parallel    []string
	FirstCaught error
}

func (e *LinearizationError) Error() string {
	if e.FirstCaught != nil {
		return fmt.Sprintf("no valid interleaving: %s: %v", e.Message, e.FirstCaught)
	}
	return fmt.Sprintf("no valid interleaving: %s", e.Message)
}

func (e *LinearizationError) Unwrap() error { return e.FirstCaught }

// NewLinearizationError wraps a pre-formatted report as a LinearizationError.
// The driver uses this for the single error value it ever returns to a
// caller on a failing Check: message is already the fully rendered report
// (counterexample, trace, reason), so Error() below would double up on
// framing — callers that want the raw report text should use Report()
// instead of Error().
func NewLinearizationError(message string) *LinearizationError {
	return &LinearizationError{Message: message, Sequential: message}
}

// Report returns the pre-formatted report text passed to
// NewLinearizationError, without LinearizationError.Error()'s extra framing.
func (e *LinearizationError) Report() string { return e.Message }

// EngineInvariantError signals a defect in the engine itself — a missing
// binding under substitution, a handle referenced out of generation order,
// or any other condition well-formedness was supposed to have excluded.
// It is always fatal and must never be suppressed or retried.
type EngineInvariantError struct {
	Invariant string
	Detail    string
}

func (e *EngineInvariantError) Error() string {
	return fmt.Sprintf("engine invariant violated (%s): %s", e.Invariant, e.Detail)
}

// NewEngineInvariantError constructs an EngineInvariantError.
func NewEngineInvariantError(invariant, detail string) *EngineInvariantError {
	return &EngineInvariantError{Invariant: invariant, Detail: detail}
}

// TimeoutError reports that a program's wall-clock budget was exceeded.
// This is the quality-of-life timeout extension; it is reported as an
// ordinary failure, distinguishable from a LinearizationError so callers can
// tell "the model rejected this run" from "the run never finished".
type TimeoutError struct {
	Budget string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("program exceeded wall-clock budget of %s", e.Budget)
}
