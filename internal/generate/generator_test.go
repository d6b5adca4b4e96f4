package generate

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter/gen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statecheck/internal/argspec"
	"statecheck/internal/command"
	"statecheck/internal/symbolic"
)

// counterState is a minimal model: a running total that "inc" may always
// increase and "dec" may only decrease while positive.
type counterState struct{ total int }

func counterTable() *command.Table {
	table := command.NewTable()
	_ = table.Register(command.Command{
		Name: "inc",
		Args: func(any) argspec.Spec { return argspec.FromGen(gen.IntRange(1, 5)) },
		Precondition: func(any, symbolic.Value) bool { return true },
		NextState: func(state any, args symbolic.Value, _ symbolic.Result) any {
			n, _ := args.AsLiteral()
			s := state.(counterState)
			return counterState{total: s.total + n.(int)}
		},
		Real: func(any) (any, error) { return nil, nil },
	})
	_ = table.Register(command.Command{
		Name:     "dec",
		Requires: func(state any) bool { return state.(counterState).total > 0 },
		Args:     func(any) argspec.Spec { return argspec.Literal(1) },
		Precondition: func(state any, _ symbolic.Value) bool {
			return state.(counterState).total > 0
		},
		NextState: func(state any, _ symbolic.Value, _ symbolic.Result) any {
			s := state.(counterState)
			return counterState{total: s.total - 1}
		},
		Real: func(any) (any, error) { return nil, nil },
	})
	return table
}

func counterHooks() command.Hooks {
	return command.Hooks{InitialState: func(any) any { return counterState{} }}
}

func TestGenerator_ShouldReferenceOnlyEarlierHandles_WhenGeneratingASequence(t *testing.T) {
	g := New(counterTable(), counterHooks())
	rng := rand.New(rand.NewSource(7))

	prog, err := g.Generate(rng, nil, Options{MaxLength: 15})
	require.NoError(t, err)

	for _, inv := range prog.AllInvocations() {
		for _, ref := range inv.Args.Handles(nil) {
			assert.True(t, ref.Before(inv.Handle), "handle %v referenced by %v must be minted earlier", ref, inv.Handle)
		}
	}
}

func TestGenerator_ShouldNeverProposeDec_WhenModelTotalIsZero(t *testing.T) {
	g := New(counterTable(), counterHooks())
	rng := rand.New(rand.NewSource(1))

	prog, err := g.Generate(rng, nil, Options{MaxLength: 10})
	require.NoError(t, err)

	state := counterState{}
	for _, inv := range prog.Sequential {
		if inv.Command == "dec" {
			require.Greater(t, state.total, 0, "dec proposed while total was zero")
			state.total--
		} else {
			n, _ := inv.Args.AsLiteral()
			state.total += n.(int)
		}
	}
}

func TestGenerator_ShouldBeDeterministic_GivenTheSameSeed(t *testing.T) {
	rng1 := rand.New(rand.NewSource(99))
	rng2 := rand.New(rand.NewSource(99))

	p1, err := New(counterTable(), counterHooks()).Generate(rng1, nil, Options{MaxLength: 10})
	require.NoError(t, err)
	p2, err := New(counterTable(), counterHooks()).Generate(rng2, nil, Options{MaxLength: 10})
	require.NoError(t, err)

	assert.Equal(t, len(p1.Sequential), len(p2.Sequential))
	for i := range p1.Sequential {
		assert.Equal(t, p1.Sequential[i].Command, p2.Sequential[i].Command)
	}
}

func TestGenerator_ShouldNotEvaluateHooksPostcondition_DuringGeneration(t *testing.T) {
	hooks := counterHooks()
	hooks.Postcondition = func(state any) bool { return state.(counterState).total == 0 }

	g := New(counterTable(), hooks)
	rng := rand.New(rand.NewSource(7))

	_, err := g.Generate(rng, nil, Options{MaxLength: 10})
	require.NoError(t, err, "spec_postcondition is a linearization-time terminal check, not a generation gate")
}

func TestGenerator_ShouldPreferGenerateCommandHook_WhenItNamesAnEnabledCommand(t *testing.T) {
	hooks := counterHooks()
	hooks.GenerateCommand = func(any) (string, bool) { return "inc", true }

	g := New(counterTable(), hooks)
	rng := rand.New(rand.NewSource(1))

	prog, err := g.Generate(rng, nil, Options{MaxLength: 5})
	require.NoError(t, err)
	require.NotEmpty(t, prog.Sequential)
	for _, inv := range prog.Sequential {
		assert.Equal(t, "inc", inv.Command)
	}
}

func TestGenerator_ShouldFallBackToUniformChoice_WhenGenerateCommandDeclines(t *testing.T) {
	hooks := counterHooks()
	hooks.GenerateCommand = func(any) (string, bool) { return "", false }

	g := New(counterTable(), hooks)
	rng := rand.New(rand.NewSource(7))

	prog, err := g.Generate(rng, nil, Options{MaxLength: 15})
	require.NoError(t, err)
	assert.NotEmpty(t, prog.Sequential)
}

func TestGenerator_ShouldProduceParallelThreads_WhenThreadsOptionIsSet(t *testing.T) {
	g := New(counterTable(), counterHooks())
	rng := rand.New(rand.NewSource(3))

	prog, err := g.Generate(rng, nil, Options{MaxLength: 15, Threads: 2})
	require.NoError(t, err)
	assert.True(t, prog.IsParallel())
	assert.Len(t, prog.Parallel, 2)
}
