// Package shrink implements C5: the shrinker.
//
// Shrinking a Program is kept entirely engine-authored rather than delegated
// to the external generator monad's shrink trees (see SPEC_FULL.md §10.2):
// only a program-aware shrinker can guarantee every candidate it proposes is
// still well-formed — every invocation's arguments reference only handles
// minted by an invocation that still exists in the candidate.
package shrink

import (
	"statecheck/internal/command"
	"statecheck/internal/generate"
	"statecheck/internal/symbolic"
)

// Candidate pairs a shrink candidate Program with the model context needed
// to judge, before ever running it, whether it could have been proposed by
// the generator in the first place (§4.5, §10.8).
type Candidate struct {
	Program generate.Program
	table   *command.Table
	hooks   command.Hooks
	setup   any
}

// Valid reports whether c.Program is well-formed (every handle reference
// points at an invocation earlier in the same list, per §3's invariants)
// and, replayed symbolically from hooks.InitialState, never proposes an
// invocation whose Requires or Precondition is false along its own
// trajectory. A candidate that fails either check was never a legal program
// to begin with: it is rejected pre-run rather than handed to isFailing, so
// a precondition violation introduced by shrinking is never mistaken for
// the real counterexample (SPEC_FULL.md §4.5, §10.8).
func (c Candidate) Valid() bool {
	if !wellFormed(c.Program) {
		return false
	}
	state, ok := replay(c.table, c.hooks.InitialState(c.setup), c.Program.Sequential)
	if !ok {
		return false
	}
	for _, thread := range c.Program.Parallel {
		if _, ok := replay(c.table, state, thread); !ok {
			return false
		}
	}
	return true
}

// replay walks invocations against state using each command's Requires and
// Precondition, the same symbolic trajectory the generator follows, and
// returns the final state reached and whether every step held.
func replay(table *command.Table, state any, invocations []generate.Invocation) (any, bool) {
	for _, inv := range invocations {
		cmd, ok := table.Get(inv.Command)
		if !ok {
			return nil, false
		}
		if cmd.Requires != nil && !cmd.Requires(state) {
			return nil, false
		}
		if !cmd.Precondition(state, inv.Args) {
			return nil, false
		}
		state = cmd.NextState(state, inv.Args, symbolic.Sym(inv.Handle))
	}
	return state, true
}

// wellFormed reports whether every handle referenced inside any invocation's
// arguments was minted by a strictly-earlier invocation still present in p,
// or is the reserved setup handle.
func wellFormed(p generate.Program) bool {
	known := make(map[symbolic.Handle]bool)
	if !extendKnown(p.Sequential, known) {
		return false
	}
	for _, thread := range p.Parallel {
		threadKnown := make(map[symbolic.Handle]bool, len(known))
		for h := range known {
			threadKnown[h] = true
		}
		if !extendKnown(thread, threadKnown) {
			return false
		}
	}
	return true
}

func extendKnown(list []generate.Invocation, known map[symbolic.Handle]bool) bool {
	for _, inv := range list {
		for _, ref := range inv.Args.Handles(nil) {
			if !ref.IsSetup() && !known[ref] {
				return false
			}
		}
		known[inv.Handle] = true
	}
	return true
}

// Candidates returns every one-step-smaller Program reachable from p that is
// still Valid(), ordered from most aggressive (biggest program reduction) to
// least (argument-only tweaks), mirroring how the teacher's planner ordered
// waves from broadest to narrowest scope. table and hooks are the model
// context Valid() replays candidates against; setup is whatever Hooks.Setup
// returned for the run being shrunk.
func Candidates(p generate.Program, table *command.Table, hooks command.Hooks, setup any) []generate.Program {
	var raw []generate.Program
	raw = append(raw, sequentializeCandidates(p)...)
	raw = append(raw, dropThreadCandidates(p)...)
	raw = append(raw, removeInvocationCandidates(p)...)
	raw = append(raw, shrinkArgCandidates(p)...)

	out := make([]generate.Program, 0, len(raw))
	for _, cand := range raw {
		c := Candidate{Program: cand, table: table, hooks: hooks, setup: setup}
		if c.Valid() {
			out = append(out, cand)
		}
	}
	return out
}

// sequentializeCandidates offers flattening the whole parallel section into
// the sequential prefix, in thread order. This is the single biggest
// simplification available: a sequential counterexample is always easier to
// read than a concurrent one, so it is always worth trying first.
func sequentializeCandidates(p generate.Program) []generate.Program {
	if !p.IsParallel() {
		return nil
	}
	flat := append([]generate.Invocation(nil), p.Sequential...)
	for _, thread := range p.Parallel {
		flat = append(flat, thread...)
	}
	return []generate.Program{{Sequential: flat}}
}

// dropThreadCandidates offers removing one whole parallel thread at a time.
func dropThreadCandidates(p generate.Program) []generate.Program {
	if len(p.Parallel) < 2 {
		return nil
	}
	var out []generate.Program
	for i := range p.Parallel {
		cand := p.Clone()
		cand.Parallel = append(append([][]generate.Invocation(nil), cand.Parallel[:i]...), cand.Parallel[i+1:]...)
		out = append(out, cand)
	}
	return out
}

// removeInvocationCandidates offers removing one invocation at a time,
// cascading to remove every invocation elsewhere in the program whose
// arguments reference the removed invocation's handle, so every candidate
// stays well-formed.
func removeInvocationCandidates(p generate.Program) []generate.Program {
	all := p.AllInvocations()
	var out []generate.Program
	for _, inv := range all {
		out = append(out, removeHandle(p, inv.Handle))
	}
	return out
}

// removeHandle drops every invocation that is, transitively, h or a
// consumer of h's result, from every list in p.
func removeHandle(p generate.Program, h symbolic.Handle) generate.Program {
	dead := map[symbolic.Handle]bool{h: true}

	grow := func(list []generate.Invocation) bool {
		changed := false
		for _, inv := range list {
			if dead[inv.Handle] {
				continue
			}
			for _, ref := range inv.Args.Handles(nil) {
				if dead[ref] {
					dead[inv.Handle] = true
					changed = true
					break
				}
			}
		}
		return changed
	}

	for {
		changed := grow(p.Sequential)
		for _, thread := range p.Parallel {
			if grow(thread) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	filter := func(list []generate.Invocation) []generate.Invocation {
		out := make([]generate.Invocation, 0, len(list))
		for _, inv := range list {
			if !dead[inv.Handle] {
				out = append(out, inv)
			}
		}
		return out
	}

	out := generate.Program{Sequential: filter(p.Sequential)}
	for _, thread := range p.Parallel {
		out.Parallel = append(out.Parallel, filter(thread))
	}
	return out
}

// shrinkArgCandidates offers, for each invocation, a copy with its argument
// tree replaced by one smaller value (see valueshrink.go).
func shrinkArgCandidates(p generate.Program) []generate.Program {
	var out []generate.Program

	shrinkList := func(list []generate.Invocation, setAt func(generate.Program, int, symbolic.Value) generate.Program) {
		for i, inv := range list {
			for _, shrunk := range Value(inv.Args) {
				out = append(out, setAt(p.Clone(), i, shrunk))
			}
		}
	}

	shrinkList(p.Sequential, func(cand generate.Program, i int, v symbolic.Value) generate.Program {
		cand.Sequential[i].Args = v
		return cand
	})
	for t := range p.Parallel {
		t := t
		shrinkList(p.Parallel[t], func(cand generate.Program, i int, v symbolic.Value) generate.Program {
			cand.Parallel[t][i].Args = v
			return cand
		})
	}

	return out
}
