package statecheck

import (
	"statecheck/internal/command"
	"statecheck/internal/symbolic"
)

// Command[S] is one command a Spec[S] can generate, typed over the model
// state S. Internally it is erased to internal/command.Command the moment
// it is registered — nothing past this package needs the type parameter.
type Command[S any] struct {
	Name string

	// Requires reports whether this command can be proposed in state s.
	// Nil always allows it.
	Requires func(s S) bool

	// Args returns the ArgSpec this command draws its arguments from.
	Args func(s S) ArgSpec

	// Precondition checks args (already substituted for any resolvable
	// handles) against s before the invocation is accepted into a program.
	Precondition func(s S, args Value) bool

	// NextState advances the model, given the result (symbolic during
	// generation, concrete during linearization).
	NextState func(s S, args Value, result Result) S

	// Postcondition checks a concrete result against the model's
	// before/after states during linearization. Nil always succeeds.
	Postcondition func(prev, next S, args any, result any) bool

	// Real performs the side-effecting call against the system under test.
	Real func(args any) (any, error)
}

// Value is a realized, substitutable argument tree — what a command's
// Precondition/NextState callbacks receive once C3 has drawn an ArgSpec
// down to concrete shape.
type Value = symbolic.Value

func (c Command[S]) erase() command.Command {
	return command.Command{
		Name: c.Name,
		Requires: func(state any) bool {
			if c.Requires == nil {
				return true
			}
			return c.Requires(state.(S))
		},
		Args: func(state any) ArgSpec {
			return c.Args(state.(S))
		},
		Precondition: func(state any, args symbolic.Value) bool {
			return c.Precondition(state.(S), args)
		},
		NextState: func(state any, args symbolic.Value, result symbolic.Result) any {
			return c.NextState(state.(S), args, result)
		},
		Postcondition: func(prev, next any, args any, result any) bool {
			if c.Postcondition == nil {
				return true
			}
			return c.Postcondition(prev.(S), next.(S), args, result)
		},
		Real: c.Real,
	}
}

// Spec[S] is a complete model of a stateful system: how to set it up and
// tear it down, its initial model state, the commands it can generate, and
// any spec-wide invariant checked once after the last invocation.
type Spec[S any] struct {
	// Setup connects to the system under test and returns an opaque value
	// passed to InitialState and Cleanup. Commands reach it through the
	// reserved setup handle in their argument trees. Optional.
	Setup func() (any, error)

	// Cleanup releases what Setup produced. Always called if Setup
	// succeeded. Optional.
	Cleanup func(setup any) error

	// InitialState returns the model's state before any command runs.
	InitialState func(setup any) S

	// Commands is the command table this spec generates from.
	Commands []Command[S]

	// GenerateCommand optionally biases which command the generator
	// proposes next. It returns a command name and true to force that
	// choice, or false to decline and fall back to a uniform choice over
	// the commands currently enabled. Optional.
	GenerateCommand func(s S) (name string, ok bool)

	// Postcondition is the spec-wide terminal invariant, checked exactly
	// once per linearization after the last invocation of a sequential
	// program or interleaving. Optional.
	Postcondition func(s S) bool
}

// erase builds the internal, non-generic command table and hooks this
// Spec[S] compiles down to.
func (s Spec[S]) erase(opts Options) (*command.Table, command.Hooks, error) {
	table := command.NewTable()
	for _, c := range s.Commands {
		if err := table.Register(c.erase()); err != nil {
			return nil, command.Hooks{}, err
		}
	}

	hooks := command.Hooks{
		Setup:   s.Setup,
		Cleanup: s.Cleanup,
		InitialState: func(setup any) any {
			return s.InitialState(setup)
		},
		MaxLength: opts.MaxLength,
		Threads:   opts.Threads,
	}
	if s.GenerateCommand != nil {
		hooks.GenerateCommand = func(state any) (string, bool) {
			return s.GenerateCommand(state.(S))
		}
	}
	if s.Postcondition != nil {
		hooks.Postcondition = func(state any) bool {
			return s.Postcondition(state.(S))
		}
	}
	return table, hooks, nil
}
