// Package generate implements C4: the program generator.
//
// A Program is a sequential prefix of invocations followed, optionally, by a
// fixed number of concurrent threads — each itself a linear sequence of
// invocations sharing the handle namespace the prefix minted. The thread
// split is grounded on the teacher's execution-wave model
// (internal/application/executor/planner.go): the prefix is everything that
// must complete before any concurrency starts, and each thread is a
// "lane" that, from the model's point of view, must admit at least one
// interleaving with the others — exactly the role an ExecutionWave's
// parallel node list plays for the workflow engine, narrowed from N
// dependency-driven lanes down to a fixed Threads count of independent ones.
package generate

import "statecheck/internal/symbolic"

// Invocation is one step of a program: a command name, the handle that will
// hold its result, and the symbolic argument tree it was drawn with (handle
// leaves stay symbolic and are resolved by the runner at execution time).
type Invocation struct {
	Handle  symbolic.Handle
	Command string
	Args    symbolic.Value
}

// Program is what C4 produces and C5 shrinks: a sequential prefix, plus zero
// or more parallel threads that run concurrently once the prefix completes.
type Program struct {
	Sequential []Invocation
	Parallel   [][]Invocation
}

// Len reports the total invocation count across the prefix and every
// thread — the quantity MaxLength bounds.
func (p Program) Len() int {
	n := len(p.Sequential)
	for _, thread := range p.Parallel {
		n += len(thread)
	}
	return n
}

// IsParallel reports whether p has a concurrent section at all.
func (p Program) IsParallel() bool { return len(p.Parallel) > 0 }

// Clone deep-copies p; callers mutate clones freely (the shrinker relies on
// this to produce independent shrink candidates from one parent).
func (p Program) Clone() Program {
	out := Program{Sequential: append([]Invocation(nil), p.Sequential...)}
	if p.Parallel != nil {
		out.Parallel = make([][]Invocation, len(p.Parallel))
		for i, thread := range p.Parallel {
			out.Parallel[i] = append([]Invocation(nil), thread...)
		}
	}
	return out
}

// AllInvocations returns every invocation in generation order: the prefix,
// then each thread's invocations thread-by-thread. Handle sequence numbers
// are monotonic in this order by construction (see generator.go).
func (p Program) AllInvocations() []Invocation {
	out := make([]Invocation, 0, p.Len())
	out = append(out, p.Sequential...)
	for _, thread := range p.Parallel {
		out = append(out, thread...)
	}
	return out
}
