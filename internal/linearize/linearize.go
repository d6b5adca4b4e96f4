// Package linearize implements C7: the linearizability checker.
//
// A sequential program only ever has one possible order, so checking it is
// just replaying the model once. A parallel program's threads could have
// interleaved in any order consistent with each thread's own internal
// order; checking it means searching those interleavings for at least one
// under which the model, replayed step by step against the runner's actual
// concrete results, never violates a precondition or postcondition. This is
// the same "does at least one schedule consistent with per-lane order
// satisfy every dependency" search the teacher's execution planner performs
// when deciding if a wave is ready (internal/application/executor/planner.go
// canExecuteNode) — narrowed here from "is a single schedule valid" to "does
// any schedule exist that is valid", since a concurrent history only has to
// admit one linearization to be accepted (SPEC_FULL.md §4.7, §8 P1/P2).
package linearize

import (
	"statecheck/internal/command"
	"statecheck/internal/errs"
	"statecheck/internal/generate"
	"statecheck/internal/runner"
	"statecheck/internal/symbolic"
)

// maxExplored bounds how many candidate next-steps the search will try
// before giving up on finding a satisfying interleaving. Real suites run
// with small thread counts and short per-thread sequences (SPEC_FULL.md §6
// defaults), so this is generous without being unbounded.
const maxExplored = 200000

// Checker replays a Program's invocations against model callbacks, in every
// order consistent with the program's structure, looking for one that
// satisfies every precondition and postcondition.
type Checker struct {
	table *command.Table
	hooks command.Hooks
}

// New returns a checker bound to table and hooks.
func New(table *command.Table, hooks command.Hooks) *Checker {
	return &Checker{table: table, hooks: hooks}
}

// Result reports whether some linearization of prog against run's observed
// bindings satisfies every model callback, and if so, which order of
// invocations witnessed it.
type Result struct {
	Linearizable bool
	Witness      []generate.Invocation
	Explored     int
}

// Check searches for a linearization. setup is whatever Hooks.Setup
// returned.
func (c *Checker) Check(prog generate.Program, run *runner.Run, setup any) (Result, error) {
	state := c.hooks.InitialState(setup)

	witness := make([]generate.Invocation, 0, prog.Len())
	for _, inv := range prog.Sequential {
		next, ok, err := c.applyStep(state, inv, run.Bindings)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return Result{Linearizable: false, Explored: 1}, nil
		}
		state = next
		witness = append(witness, inv)
	}

	if !prog.IsParallel() {
		if c.hooks.Postcondition != nil && !c.hooks.Postcondition(state) {
			return Result{Linearizable: false, Explored: 1}, nil
		}
		return Result{Linearizable: true, Witness: witness}, nil
	}

	s := &search{checker: c, bindings: run.Bindings, threads: prog.Parallel}
	ok, tail, explored, err := s.explore(state, make([]int, len(prog.Parallel)), 0)
	if err != nil {
		return Result{}, err
	}
	return Result{Linearizable: ok, Witness: append(witness, tail...), Explored: explored + len(prog.Sequential)}, nil
}

// applyStep substitutes inv's args against bindings, checks the command's
// precondition and postcondition against the concrete result the runner
// actually observed, and advances state via next_state. ok is false if any
// of those checks fail — this invocation cannot come next in a valid
// linearization.
func (c *Checker) applyStep(state any, inv generate.Invocation, bindings *symbolic.Bindings) (any, bool, error) {
	cmd, ok := c.table.Get(inv.Command)
	if !ok {
		return nil, false, errs.NewEngineInvariantError("linearize", "program references unregistered command \""+inv.Command+"\"")
	}

	concreteArgs, err := bindings.Substitute(inv.Args)
	if err != nil {
		return nil, false, err
	}

	if !cmd.Precondition(state, concreteArgs) {
		return nil, false, nil
	}

	outcome, bound := bindings.Lookup(inv.Handle)
	if !bound {
		return nil, false, errs.NewEngineInvariantError("linearize", "handle "+inv.Handle.String()+" was never bound by the runner")
	}

	// A caught exception invalidates this interleaving outright: there is no
	// next_state/postcondition to evaluate against a thrown step (§4.7, §7).
	if outcome.Failed() {
		return nil, false, nil
	}

	result := symbolic.Concrete(outcome.Value())
	nextState := cmd.NextState(state, concreteArgs, result)

	if cmd.Postcondition != nil {
		rawArgs, err := bindings.RawArgs(inv.Args)
		if err != nil {
			return nil, false, err
		}
		if !cmd.Postcondition(state, nextState, rawArgs, outcome.Value()) {
			return nil, false, nil
		}
	}

	return nextState, true, nil
}

// search enumerates interleavings of threads by backtracking over which
// thread's next unconsumed invocation is tried next, recursing into the
// model only when a candidate step's checks pass.
type search struct {
	checker  *Checker
	bindings *symbolic.Bindings
	threads  [][]generate.Invocation
}

// explore returns (found, witness-from-here, steps-explored, error). cursor
// holds, per thread, how many of that thread's invocations have already
// been consumed along the current path.
func (s *search) explore(state any, cursor []int, explored int) (bool, []generate.Invocation, int, error) {
	if explored > maxExplored {
		return false, nil, explored, nil
	}

	done := true
	for t, thread := range s.threads {
		if cursor[t] < len(thread) {
			done = false
		}
	}
	if done {
		if s.checker.hooks.Postcondition != nil && !s.checker.hooks.Postcondition(state) {
			return false, nil, explored, nil
		}
		return true, nil, explored, nil
	}

	for t, thread := range s.threads {
		if cursor[t] >= len(thread) {
			continue
		}
		inv := thread[cursor[t]]

		nextState, ok, err := s.checker.applyStep(state, inv, s.bindings)
		explored++
		if err != nil {
			return false, nil, explored, err
		}
		if !ok {
			continue
		}

		nextCursor := append([]int(nil), cursor...)
		nextCursor[t]++

		found, tail, explored2, err := s.explore(nextState, nextCursor, explored)
		if err != nil {
			return false, nil, explored2, err
		}
		if found {
			return true, append([]generate.Invocation{inv}, tail...), explored2, nil
		}
		explored = explored2
	}

	return false, nil, explored, nil
}
