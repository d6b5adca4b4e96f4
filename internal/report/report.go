// Package report implements the failure reporting half of C8: turning a
// minimal counterexample and its trace into the fixed-format report a user
// reads, plus an optional note taken from Failure.MutationNote.
package report

import (
	"fmt"
	"strings"

	"statecheck/internal/generate"
	"statecheck/internal/runner"
)

// Failure is everything a failed Check run needs to report: the minimal
// program the shrinker settled on, the trace recorded while running it one
// last time, and why linearization (or the model itself) rejected it.
type Failure struct {
	SpecName string
	Seed     int64
	Program  generate.Program
	Trace    *runner.Trace
	Reason   string

	// MutationNote is free text that Format appends as a trailing note when
	// it is non-empty. The engine itself never sets it and does not compare
	// results across runs.
	MutationNote string
}

// Format renders f as the report a user reads on a failing Check call: the
// minimal counterexample's invocations, the reason it failed, the
// per-invocation trace, and any mutation-detection note.
func Format(f Failure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "statecheck: %s failed (seed=%d)\n", f.SpecName, f.Seed)
	fmt.Fprintf(&b, "reason: %s\n\n", f.Reason)

	fmt.Fprintf(&b, "minimal counterexample (%d invocations):\n", f.Program.Len())
	for i, inv := range f.Program.Sequential {
		fmt.Fprintf(&b, "  %2d. %s := %s(%v)\n", i+1, inv.Handle.String(), inv.Command, inv.Args)
	}
	for t, thread := range f.Program.Parallel {
		fmt.Fprintf(&b, "  thread %c:\n", 'A'+t)
		for i, inv := range thread {
			fmt.Fprintf(&b, "    %2d. %s := %s(%v)\n", i+1, inv.Handle.String(), inv.Command, inv.Args)
		}
	}
	b.WriteString("\n")

	if f.Trace != nil {
		b.WriteString(f.Trace.String())
	}

	if f.MutationNote != "" {
		fmt.Fprintf(&b, "\nnote: %s\n", f.MutationNote)
	}

	return b.String()
}
