package generate

import (
	"math/rand"

	"statecheck/internal/argspec"
	"statecheck/internal/command"
	"statecheck/internal/symbolic"
)

// maxProposalsPerStep bounds how many times the generator will retry
// picking-a-command-and-drawing-its-args before giving up on a step: a
// command whose guard or precondition rejects every draw for this many
// attempts is treated as not generatable right now, same as Requires
// returning false.
const maxProposalsPerStep = 50

// Options configures one generation pass.
type Options struct {
	MaxLength int // 0 means "use DefaultMaxLength"
	Threads   int // 0 means sequential-only
}

// DefaultMaxLength is used when Options.MaxLength is zero.
const DefaultMaxLength = 20

// Generator produces Programs against a command table and a model's
// spec-level hooks.
type Generator struct {
	table   *command.Table
	hooks   command.Hooks
	builder *argspec.Builder
}

// New returns a generator bound to table and hooks.
func New(table *command.Table, hooks command.Hooks) *Generator {
	return &Generator{table: table, hooks: hooks, builder: argspec.NewBuilder()}
}

// Generate draws one random Program. rng drives every random choice, so
// handing it the same seeded source twice reproduces the same program —
// the property the shrinker and the seed store both depend on.
func (g *Generator) Generate(rng *rand.Rand, setup any, opts Options) (Program, error) {
	maxLen := opts.MaxLength
	if maxLen <= 0 {
		maxLen = DefaultMaxLength
	}

	registry := symbolic.NewRegistry()
	state := g.hooks.InitialState(setup)

	seqBudget := maxLen
	if opts.Threads > 0 {
		// Give the sequential prefix at most two thirds of the budget so
		// there's always room left for the parallel section.
		seqBudget = maxLen * 2 / 3
	}

	prefix, state, err := g.generateSequence(rng, registry, state, seqBudget)
	if err != nil {
		return Program{}, err
	}

	prog := Program{Sequential: prefix}
	if opts.Threads > 0 {
		remaining := maxLen - len(prefix)
		if remaining < opts.Threads {
			remaining = opts.Threads
		}
		perThread := remaining / opts.Threads
		if perThread < 1 {
			perThread = 1
		}
		threads := make([][]Invocation, opts.Threads)
		for i := 0; i < opts.Threads; i++ {
			thread, _, err := g.generateSequence(rng, registry, state, perThread)
			if err != nil {
				return Program{}, err
			}
			threads[i] = thread
		}
		prog.Parallel = threads
	}

	return prog, nil
}

// generateSequence draws a linear run of up to budget invocations, starting
// from state, and returns the final model state it reached. Each thread of
// a parallel section calls this independently, starting from the same
// post-prefix state but minting handles from the shared registry so every
// handle in the program is still unique and strictly increasing.
func (g *Generator) generateSequence(rng *rand.Rand, registry *symbolic.Registry, state any, budget int) ([]Invocation, any, error) {
	out := make([]Invocation, 0, budget)
	for len(out) < budget {
		inv, nextState, ok, err := g.step(rng, registry, state)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			break
		}
		out = append(out, inv)
		state = nextState

		remaining := budget - len(out)
		if remaining <= 0 {
			break
		}
		// Early termination is a coin flip weighted by remaining size: the
		// closer a sequence is to its budget, the likelier it stops here
		// rather than padding out to the full length.
		if rng.Intn(remaining+1) == 0 {
			break
		}
	}
	return out, state, nil
}

// step attempts one invocation: pick an enabled command, draw its args,
// check the guard and precondition, and if everything holds, mint a handle
// and advance state. ok is false if no invocation could be generated after
// maxProposalsPerStep tries.
func (g *Generator) step(rng *rand.Rand, registry *symbolic.Registry, state any) (Invocation, any, bool, error) {
	enabled := g.table.Enabled(state)
	if len(enabled) == 0 {
		return Invocation{}, nil, false, nil
	}

	for attempt := 0; attempt < maxProposalsPerStep; attempt++ {
		cmd := g.pickCommand(rng, enabled, state)

		spec := cmd.Args(state)
		args, ok, err := g.builder.Build(spec)
		if err != nil {
			return Invocation{}, nil, false, err
		}
		if !ok {
			continue
		}

		if !cmd.Precondition(state, args) {
			continue
		}

		handle := registry.Mint()
		nextState := cmd.NextState(state, args, symbolic.Sym(handle))

		return Invocation{Handle: handle, Command: cmd.Name, Args: args}, nextState, true, nil
	}

	return Invocation{}, nil, false, nil
}

// pickCommand chooses the next command to propose, preferring the spec's
// generate_command hook when it names one of the currently enabled commands,
// and otherwise falling back to a uniform choice over enabled (§4.4 step 2a).
func (g *Generator) pickCommand(rng *rand.Rand, enabled []command.Command, state any) command.Command {
	if g.hooks.GenerateCommand != nil {
		if name, ok := g.hooks.GenerateCommand(state); ok {
			for _, cmd := range enabled {
				if cmd.Name == name {
					return cmd
				}
			}
		}
	}
	return enabled[rng.Intn(len(enabled))]
}
