package statecheck

import "statecheck/internal/symbolic"

// Result is a command's abstract result: Sym during generation (the
// invocation hasn't run yet) or Concrete during linearization (the runner
// already produced a real outcome). A model's NextState callback typically
// doesn't care which phase it was called from and just passes Result
// straight through to wherever it stores handles.
type Result = symbolic.Result

// Sym wraps a handle as a not-yet-executed result.
func Sym(h Handle) Result { return symbolic.Sym(h) }

// Concrete wraps an already-executed value as a result.
func Concrete(v any) Result { return symbolic.Concrete(v) }

// Handle is a symbolic reference to an invocation's eventual result. Two
// handles are only ever equal if they were minted by the same invocation.
type Handle = symbolic.Handle
