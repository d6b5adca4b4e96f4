package symbolic

import "statecheck/internal/errs"

// Outcome is what a single invocation produced: either a value or a caught
// exception (every user-thrown error is caught by the runner, never let to
// escape). Bindings maps handles to outcomes as execution progresses.
type Outcome struct {
	err error
	val any
}

// OutcomeValue wraps a successful result.
func OutcomeValue(v any) Outcome { return Outcome{val: v} }

// OutcomeException wraps a caught error.
func OutcomeException(err error) Outcome { return Outcome{err: err} }

// Failed reports whether this outcome is a caught exception.
func (o Outcome) Failed() bool { return o.err != nil }

// Err returns the caught error, or nil if this outcome succeeded.
func (o Outcome) Err() error { return o.err }

// Value returns the wrapped value (nil for a failed outcome).
func (o Outcome) Value() any { return o.val }

// Bindings is the append-only Handle -> Outcome map built while a program
// executes. During any one execution it is written only by the runner (the
// sequential phase before any parallel thread starts; each parallel thread
// only for its own handles) and is otherwise read-only, matching §5's
// shared-resource policy.
type Bindings struct {
	m map[Handle]Outcome
}

// NewBindings returns an empty binding set.
func NewBindings() *Bindings {
	return &Bindings{m: make(map[Handle]Outcome)}
}

// Bind records the outcome of handle h. Bind is the only writer of m; callers
// running concurrently (the parallel runner phase) must synchronize calls
// themselves or use a concurrency-safe variant (see runner.ConcurrentBindings).
func (b *Bindings) Bind(h Handle, o Outcome) { b.m[h] = o }

// Lookup returns the outcome bound to h, or false if nothing is bound yet.
func (b *Bindings) Lookup(h Handle) (Outcome, bool) {
	o, ok := b.m[h]
	return o, ok
}

// Resolve returns the concrete value bound to h, turning a missing binding
// into an EngineInvariantError: well-formedness was supposed to guarantee
// every referenced handle is already bound by the time it's substituted.
func (b *Bindings) Resolve(h Handle) (any, error) {
	o, ok := b.m[h]
	if !ok {
		return nil, errs.NewEngineInvariantError("missing-binding", "handle "+h.String()+" has no bound outcome")
	}
	if o.Failed() {
		return nil, errs.NewEngineInvariantError("bound-to-exception", "handle "+h.String()+" is bound to a caught exception, not a value")
	}
	return o.val, nil
}

// Substitute walks v deep over tuples and maps, replacing every handle leaf
// with its bound concrete value via Resolve. Literal leaves pass through
// unchanged. This is C1's substitution operation.
func (b *Bindings) Substitute(v Value) (Value, error) {
	switch v.Kind() {
	case KindLiteral:
		return v, nil
	case KindHandle:
		h, _ := v.AsHandle()
		concrete, err := b.Resolve(h)
		if err != nil {
			return Value{}, err
		}
		return Literal(concrete), nil
	case KindTuple:
		items, _ := v.AsTuple()
		out := make([]Value, len(items))
		for i, child := range items {
			sub, err := b.Substitute(child)
			if err != nil {
				return Value{}, err
			}
			out[i] = sub
		}
		return Tuple(out...), nil
	case KindMap:
		fields, _ := v.AsMap()
		out := make(map[string]Value, len(fields))
		for k, child := range fields {
			sub, err := b.Substitute(child)
			if err != nil {
				return Value{}, err
			}
			out[k] = sub
		}
		return Map(out), nil
	default:
		return v, nil
	}
}

// RawArgs substitutes v and collapses it to plain Go values in one step —
// the shape real_command is actually invoked with.
func (b *Bindings) RawArgs(v Value) (any, error) {
	return v.Raw(func(h Handle) (any, error) { return b.Resolve(h) })
}

// Range calls fn for every handle bound so far. Used by the runner to seed
// the parallel phase's concurrency-safe bindings with the sequential
// prefix's results.
func (b *Bindings) Range(fn func(Handle, Outcome)) {
	for h, o := range b.m {
		fn(h, o)
	}
}
