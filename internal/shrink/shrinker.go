package shrink

import (
	"statecheck/internal/command"
	"statecheck/internal/generate"
)

// MaxRounds bounds how many times the shrinker will sweep Candidates before
// giving up on further reduction, guarding against pathological command
// tables where every candidate keeps failing differently forever.
const MaxRounds = 500

// IsFailing reports whether a candidate program still reproduces the
// failure being shrunk. It is exactly the C6+C7 pipeline (run, then check
// linearizability) wrapped up as a predicate; see runner and linearize.
type IsFailing func(generate.Program) bool

// Shrink repeatedly replaces p with the first still-Valid, still-failing
// candidate Candidates(p) offers, stopping when no candidate fails or
// MaxRounds is reached. table, hooks, and setup are passed through to
// Candidates so every candidate is checked against the model trajectory
// before isFailing ever runs it. Because Candidates always orders its
// biggest-reduction candidates first, this greedy walk behaves like a
// depth-first descent of the candidate's lazy shrink tree without needing to
// materialize the whole tree: at any point only the current program's
// immediate children are computed.
func Shrink(p generate.Program, table *command.Table, hooks command.Hooks, setup any, isFailing IsFailing) generate.Program {
	current := p
	for round := 0; round < MaxRounds; round++ {
		next, shrunk := shrinkOnce(current, table, hooks, setup, isFailing)
		if !shrunk {
			return current
		}
		current = next
	}
	return current
}

func shrinkOnce(p generate.Program, table *command.Table, hooks command.Hooks, setup any, isFailing IsFailing) (generate.Program, bool) {
	for _, cand := range Candidates(p, table, hooks, setup) {
		if isFailing(cand) {
			return cand, true
		}
	}
	return p, false
}
