package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statecheck/internal/argspec"
	"statecheck/internal/command"
	"statecheck/internal/generate"
	"statecheck/internal/symbolic"
)

func echoTable(t *testing.T) *command.Table {
	table := command.NewTable()
	require.NoError(t, table.Register(command.Command{
		Name:         "echo",
		Args:         func(any) argspec.Spec { return argspec.Literal(nil) },
		Precondition: func(any, symbolic.Value) bool { return true },
		NextState:    func(state any, _ symbolic.Value, _ symbolic.Result) any { return state },
		Real:         func(args any) (any, error) { return args, nil },
	}))
	require.NoError(t, table.Register(command.Command{
		Name:         "explode",
		Args:         func(any) argspec.Spec { return argspec.Literal(nil) },
		Precondition: func(any, symbolic.Value) bool { return true },
		NextState:    func(state any, _ symbolic.Value, _ symbolic.Result) any { return state },
		Real:         func(any) (any, error) { return nil, errors.New("boom") },
	}))
	return table
}

func TestRunner_ShouldBindEachHandleToItsResult_WhenSequentialProgramSucceeds(t *testing.T) {
	reg := symbolic.NewRegistry()
	h1 := reg.Mint()
	h2 := reg.Mint()
	prog := generate.Program{Sequential: []generate.Invocation{
		{Handle: h1, Command: "echo", Args: symbolic.Literal(1)},
		{Handle: h2, Command: "echo", Args: symbolic.Literal(2)},
	}}

	r := New(echoTable(t), command.Hooks{})
	run, err := r.Execute(context.Background(), prog, nil)
	require.NoError(t, err)

	v1, err := run.Bindings.Resolve(h1)
	require.NoError(t, err)
	assert.Equal(t, 1, v1)
	v2, err := run.Bindings.Resolve(h2)
	require.NoError(t, err)
	assert.Equal(t, 2, v2)
	assert.Len(t, run.Trace.Snapshot(), 2)
}

func TestRunner_ShouldBindAnExceptionOutcome_WhenRealCommandReturnsAnError(t *testing.T) {
	reg := symbolic.NewRegistry()
	h := reg.Mint()
	prog := generate.Program{Sequential: []generate.Invocation{
		{Handle: h, Command: "explode", Args: symbolic.Literal(nil)},
	}}

	r := New(echoTable(t), command.Hooks{})
	run, err := r.Execute(context.Background(), prog, nil)
	require.NoError(t, err, "a caught real_command error does not abort the run")

	_, resolveErr := run.Bindings.Resolve(h)
	assert.Error(t, resolveErr)
}

func TestRunner_ShouldStopTheSequentialPrefix_WhenAnUnregisteredCommandIsReferenced(t *testing.T) {
	reg := symbolic.NewRegistry()
	h := reg.Mint()
	prog := generate.Program{Sequential: []generate.Invocation{
		{Handle: h, Command: "missing", Args: symbolic.Literal(nil)},
	}}

	r := New(echoTable(t), command.Hooks{})
	_, err := r.Execute(context.Background(), prog, nil)
	assert.Error(t, err)
}

func TestRunner_ShouldRunEveryThread_WhenProgramHasAParallelSection(t *testing.T) {
	reg := symbolic.NewRegistry()
	hPrefix := reg.Mint()
	hA := reg.Mint()
	hB := reg.Mint()
	prog := generate.Program{
		Sequential: []generate.Invocation{
			{Handle: hPrefix, Command: "echo", Args: symbolic.Literal("prefix")},
		},
		Parallel: [][]generate.Invocation{
			{{Handle: hA, Command: "echo", Args: symbolic.Literal("a")}},
			{{Handle: hB, Command: "echo", Args: symbolic.Literal("b")}},
		},
	}

	r := New(echoTable(t), command.Hooks{})
	run, err := r.Execute(context.Background(), prog, nil)
	require.NoError(t, err)

	va, err := run.Bindings.Resolve(hA)
	require.NoError(t, err)
	assert.Equal(t, "a", va)
	vb, err := run.Bindings.Resolve(hB)
	require.NoError(t, err)
	assert.Equal(t, "b", vb)
}

func TestRunner_ShouldResolvePrefixHandles_FromWithinAParallelThread(t *testing.T) {
	reg := symbolic.NewRegistry()
	hPrefix := reg.Mint()
	hThread := reg.Mint()
	prog := generate.Program{
		Sequential: []generate.Invocation{
			{Handle: hPrefix, Command: "echo", Args: symbolic.Literal(7)},
		},
		Parallel: [][]generate.Invocation{
			{{Handle: hThread, Command: "echo", Args: symbolic.FromHandle(hPrefix)}},
		},
	}

	r := New(echoTable(t), command.Hooks{})
	run, err := r.Execute(context.Background(), prog, nil)
	require.NoError(t, err)

	v, err := run.Bindings.Resolve(hThread)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestRunner_ShouldBindTheSetupHandle_BeforeTheSequentialPhaseRuns(t *testing.T) {
	reg := symbolic.NewRegistry()
	h := reg.Mint()
	prog := generate.Program{Sequential: []generate.Invocation{
		{Handle: h, Command: "echo", Args: symbolic.FromHandle(symbolic.Setup)},
	}}

	r := New(echoTable(t), command.Hooks{})
	run, err := r.Execute(context.Background(), prog, "the-setup-handle")
	require.NoError(t, err)

	v, err := run.Bindings.Resolve(h)
	require.NoError(t, err)
	assert.Equal(t, "the-setup-handle", v)
}
