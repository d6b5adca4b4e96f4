// Package runner implements C6: the runner.
package runner

import (
	"context"
	"sync"

	"statecheck/internal/command"
	"statecheck/internal/errs"
	"statecheck/internal/generate"
	"statecheck/internal/symbolic"
)

// Run is one executed Program: the bindings every handle resolved to, and
// the trace recorded along the way. Bindings is what C7's linearizability
// checker replays model callbacks against.
type Run struct {
	Bindings *symbolic.Bindings
	Trace    *Trace
}

// Runner executes Programs against the real system under test.
type Runner struct {
	table *command.Table
	hooks command.Hooks
}

// New returns a runner bound to table and hooks.
func New(table *command.Table, hooks command.Hooks) *Runner {
	return &Runner{table: table, hooks: hooks}
}

// Execute runs prog's sequential prefix, then, if prog has a parallel
// section, runs every thread concurrently. setup is whatever Hooks.Setup
// returned (nil if there is no Setup callback).
func (r *Runner) Execute(ctx context.Context, prog generate.Program, setup any) (*Run, error) {
	bindings := symbolic.NewBindings()
	trace := NewTrace()
	bindings.Bind(symbolic.Setup, symbolic.OutcomeValue(setup))

	for _, inv := range prog.Sequential {
		if err := r.invoke(ctx, bindings, trace, setup, inv, -1); err != nil {
			return &Run{Bindings: bindings, Trace: trace}, err
		}
	}

	if !prog.IsParallel() {
		return &Run{Bindings: bindings, Trace: trace}, nil
	}

	concurrent := NewConcurrentBindings()
	for h, o := range snapshotMap(bindings) {
		concurrent.Bind(h, o)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for threadIdx, thread := range prog.Parallel {
		wg.Add(1)
		go func(threadIdx int, thread []generate.Invocation) {
			defer wg.Done()
			for _, inv := range thread {
				if err := r.invokeConcurrent(ctx, concurrent, trace, setup, inv, threadIdx); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
			}
		}(threadIdx, thread)
	}
	wg.Wait()

	merged := concurrent.ToBindings()
	return &Run{Bindings: merged, Trace: trace}, firstErr
}

func (r *Runner) invoke(ctx context.Context, bindings *symbolic.Bindings, trace *Trace, setup any, inv generate.Invocation, thread int) error {
	cmd, ok := r.table.Get(inv.Command)
	if !ok {
		return errs.NewEngineInvariantError("runner", "program references unregistered command \""+inv.Command+"\"")
	}

	rawArgs, err := bindings.RawArgs(inv.Args)
	if err != nil {
		return err
	}

	result, callErr := traceInvocation(ctx, trace, inv.Handle.String(), inv.Command, thread, rawArgs, func(ctx context.Context) (any, error) {
		return cmd.Real(rawArgs)
	})

	if callErr != nil {
		bindings.Bind(inv.Handle, symbolic.OutcomeException(callErr))
		return nil
	}
	bindings.Bind(inv.Handle, symbolic.OutcomeValue(result))
	return nil
}

func (r *Runner) invokeConcurrent(ctx context.Context, bindings *ConcurrentBindings, trace *Trace, setup any, inv generate.Invocation, thread int) error {
	cmd, ok := r.table.Get(inv.Command)
	if !ok {
		return errs.NewEngineInvariantError("runner", "program references unregistered command \""+inv.Command+"\"")
	}

	rawArgs, err := concurrentRawArgs(bindings, inv.Args)
	if err != nil {
		return err
	}

	result, callErr := traceInvocation(ctx, trace, inv.Handle.String(), inv.Command, thread, rawArgs, func(ctx context.Context) (any, error) {
		return cmd.Real(rawArgs)
	})

	if callErr != nil {
		bindings.Bind(inv.Handle, symbolic.OutcomeException(callErr))
		return nil
	}
	bindings.Bind(inv.Handle, symbolic.OutcomeValue(result))
	return nil
}

// concurrentRawArgs substitutes args against the concurrency-safe binding
// set, mirroring symbolic.Bindings.RawArgs.
func concurrentRawArgs(bindings *ConcurrentBindings, args symbolic.Value) (any, error) {
	return args.Raw(func(h symbolic.Handle) (any, error) {
		o, ok := bindings.Lookup(h)
		if !ok {
			return nil, errs.NewEngineInvariantError("runner", "handle "+h.String()+" has no bound outcome")
		}
		if o.Failed() {
			return nil, errs.NewEngineInvariantError("runner", "handle "+h.String()+" is bound to a caught exception, not a value")
		}
		return o.Value(), nil
	})
}

// snapshotMap exposes the handles a sequential Bindings has already bound,
// so the parallel phase can seed its concurrency-safe map with them.
func snapshotMap(b *symbolic.Bindings) map[symbolic.Handle]symbolic.Outcome {
	// Bindings.Range visits every bound handle; copy each into a plain map.
	out := make(map[symbolic.Handle]symbolic.Outcome)
	b.Range(func(h symbolic.Handle, o symbolic.Outcome) {
		out[h] = o
	})
	return out
}
