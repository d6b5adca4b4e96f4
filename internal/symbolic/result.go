package symbolic

// Result is the abstract result a command callback reasons about. During
// generation it is Sym(handle): the invocation hasn't run yet, so
// model_next_state only ever sees the handle that will eventually hold the
// value. During linearization it is Concrete(value): the runner already
// produced a real outcome, and model_next_state is replayed against it.
// Callbacks that don't inspect the result at all work uniformly across both
// phases without caring which one they got.
type Result struct {
	isSym bool
	sym   Handle
	val   any
}

// Sym wraps a handle as a symbolic (not-yet-executed) result.
func Sym(h Handle) Result { return Result{isSym: true, sym: h} }

// Concrete wraps an already-executed value as a concrete result.
func Concrete(v any) Result { return Result{val: v} }

// IsSymbolic reports whether r was produced during generation (true) or
// linearization (false).
func (r Result) IsSymbolic() bool { return r.isSym }

// Handle returns the wrapped handle and true if r is symbolic.
func (r Result) Handle() (Handle, bool) {
	if !r.isSym {
		return Handle{}, false
	}
	return r.sym, true
}

// Value returns the wrapped value and true if r is concrete.
func (r Result) Value() (any, bool) {
	if r.isSym {
		return nil, false
	}
	return r.val, true
}

// AsValue returns the best available Go value: the handle's symbolic
// Go-level stand-in during generation, or the real value during
// linearization. Used by callbacks that want "something printable or
// comparable" regardless of phase.
func (r Result) AsValue() any {
	if r.isSym {
		return r.sym
	}
	return r.val
}
