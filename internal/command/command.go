// Package command implements C2: the command table.
//
// The public statecheck package is generic over a model state type S, but
// nothing past the public API boundary needs to be: a Command's callbacks
// are erased to operate on `any` once they cross into the engine, the same
// way the public symbolic.Result/argspec.Spec types are already
// erasure-friendly. This keeps C3-C8 ordinary non-generic Go, grounded on
// the teacher's own node.Node being a plain interface over `any`-shaped
// configs rather than a generic type (internal/node/node.go).
package command

import (
	"statecheck/internal/argspec"
	"statecheck/internal/symbolic"
)

// Command is one registered command's erased callback set. Every field
// besides Name mirrors one of the spec's six model callbacks (SPEC_FULL.md
// §4.2); State is always the model state `any`. The symbolic.Value handed to
// Precondition and NextState keeps its handle leaves symbolic; Real and
// Postcondition receive the arguments with every handle substituted.
type Command struct {
	// Name identifies the command in traces, reports, and shrink logs.
	Name string

	// Requires reports whether this command can even be proposed in state;
	// a command failing Requires is never handed to Args. Optional: a nil
	// Requires always allows proposing the command.
	Requires func(state any) bool

	// Args returns the ArgSpec this command draws its invocation arguments
	// from, given the current symbolic model state.
	Args func(state any) argspec.Spec

	// Precondition is model_precondition: args have already been
	// substituted against bindings known at generation time (handles may
	// still be unresolved during generation; they are concrete by the time
	// this runs during linearization).
	Precondition func(state any, args symbolic.Value) bool

	// NextState is model_next_state: always pure, always total over any
	// state/args pair that passed Precondition.
	NextState func(state any, args symbolic.Value, result symbolic.Result) any

	// Postcondition is model_postcondition, checked only during
	// linearization against the concrete result the runner actually
	// observed. A nil Postcondition always succeeds.
	Postcondition func(prevState, nextState any, args any, result any) bool

	// Real is real_command: the side-effecting call against the system
	// under test. args is the fully concrete, substituted, plain-Go-typed
	// argument value (symbolic.Value.Raw shape).
	Real func(args any) (any, error)
}

// Validate reports the first missing required callback, or nil if c is
// well-formed. Requires and Postcondition are optional; every other field is
// mandatory.
func (c Command) Validate() error {
	switch {
	case c.Name == "":
		return errMissing("Name")
	case c.Args == nil:
		return errMissing("Args")
	case c.Precondition == nil:
		return errMissing("Precondition")
	case c.NextState == nil:
		return errMissing("NextState")
	case c.Real == nil:
		return errMissing("Real")
	default:
		return nil
	}
}

func errMissing(field string) error {
	return missingFieldError{field: field}
}

type missingFieldError struct{ field string }

func (e missingFieldError) Error() string {
	return "command: missing required field " + e.field
}
