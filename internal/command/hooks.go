package command

// Hooks carries the spec-level callbacks that sit above any single command:
// setup/cleanup of the system under test, the model's initial state, and the
// spec-wide terminal postcondition checked once per linearization. Erased
// the same way Command is — the public Spec[S] wraps these with a type
// parameter, the engine never needs one.
type Hooks struct {
	// Setup connects to (or otherwise prepares) the real system under test
	// and returns an opaque setup value passed to InitialState and Cleanup;
	// commands reach it through the reserved setup handle in their argument
	// trees. Optional.
	Setup func() (any, error)

	// Cleanup releases whatever Setup produced. Always invoked if Setup
	// succeeded, even when the run failed or panicked. Optional.
	Cleanup func(setup any) error

	// InitialState returns the model's state before any command has run.
	InitialState func(setup any) any

	// GenerateCommand optionally biases which command the generator proposes
	// next, given the current model state. It returns a registered command
	// name and true to force that choice, or false to decline and fall back
	// to the engine's uniform choice over Table.Enabled(state). Optional.
	GenerateCommand func(state any) (name string, ok bool)

	// Postcondition is the spec-wide terminal invariant, checked exactly
	// once per linearization — after the last invocation of a sequential
	// program or interleaving, never after any intermediate step. Optional.
	Postcondition func(state any) bool

	// MaxLength carries the spec's program-length bound. The generator does
	// not read it; generation is bounded by generate.Options.MaxLength.
	MaxLength int

	// Threads carries the spec's parallel thread count. The generator and
	// runner do not read it; generation uses generate.Options.Threads.
	Threads int
}
