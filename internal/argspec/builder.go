package argspec

import (
	"statecheck/internal/errs"
	"statecheck/internal/symbolic"
)

// Builder turns ArgSpec trees into realized symbolic.Value trees, drawing
// every Gen leaf from the external generator monad and rejecting a draw that
// fails its guard.
type Builder struct {
	guards *GuardEvaluator
}

// NewBuilder returns a builder with its own guard-compile cache.
func NewBuilder() *Builder {
	return &Builder{guards: NewGuardEvaluator()}
}

// Build draws spec down to a single symbolic.Value tree. ok is false (with a
// nil error) when a node's guard rejected the draw — the caller (C4's
// generator) should simply try again with a fresh draw, exactly as it would
// retry a failing model_precondition.
func (b *Builder) Build(spec Spec) (value symbolic.Value, ok bool, err error) {
	raw, drawnOK, err := b.draw(spec)
	if err != nil || !drawnOK {
		return symbolic.Value{}, drawnOK, err
	}
	return raw, true, nil
}

func (b *Builder) draw(spec Spec) (symbolic.Value, bool, error) {
	var (
		out     symbolic.Value
		rawVal  any
		hasGate bool
	)

	switch spec.kind {
	case KindLiteral:
		out = symbolic.Literal(spec.lit)
		rawVal = spec.lit

	case KindHandleRef:
		out = symbolic.FromHandle(spec.h)
		rawVal = spec.h

	case KindGen:
		if spec.gen == nil {
			return symbolic.Value{}, false, errs.NewEngineInvariantError("argspec", "Gen node has a nil generator")
		}
		v, present := spec.gen.Sample()
		if !present {
			return symbolic.Value{}, false, nil
		}
		out = symbolic.Literal(v)
		rawVal = v

	case KindTuple:
		items := make([]symbolic.Value, len(spec.tup))
		for i, child := range spec.tup {
			v, childOK, err := b.draw(child)
			if err != nil {
				return symbolic.Value{}, false, err
			}
			if !childOK {
				return symbolic.Value{}, false, nil
			}
			items[i] = v
		}
		out = symbolic.Tuple(items...)
		rawVal, _ = collapseForGuard(out)

	case KindMap:
		fields := make(map[string]symbolic.Value, len(spec.m))
		for k, child := range spec.m {
			v, childOK, err := b.draw(child)
			if err != nil {
				return symbolic.Value{}, false, err
			}
			if !childOK {
				return symbolic.Value{}, false, nil
			}
			fields[k] = v
		}
		out = symbolic.Map(fields)
		rawVal, _ = collapseForGuard(out)

	default:
		return symbolic.Value{}, false, errs.NewEngineInvariantError("argspec", "unknown ArgSpec kind")
	}

	hasGate = spec.guard != ""
	if hasGate {
		passed, err := b.guards.Eval(spec.guard, rawVal)
		if err != nil {
			return symbolic.Value{}, false, err
		}
		if !passed {
			return symbolic.Value{}, false, nil
		}
	}

	return out, true, nil
}

// collapseForGuard renders a partially-built tree (tuples/maps may still
// contain unresolved handle leaves) to a plain Go shape good enough for a
// guard to inspect; unresolved handles pass through as their Handle value.
func collapseForGuard(v symbolic.Value) (any, error) {
	return v.Raw(func(h symbolic.Handle) (any, error) { return h, nil })
}
