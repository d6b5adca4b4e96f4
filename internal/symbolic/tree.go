package symbolic

import (
	"fmt"

	"statecheck/internal/errs"
)

// Value is a node in an argument tree: a literal, a handle reference, an
// ordered tuple, or an unordered map with literal keys. Sub-generators (the
// fifth node kind the spec allows) only ever appear in an ArgSpec, never in
// a realized Value tree — by the time C3's builder hands back a tree, every
// sub-generator has been drawn down to one of these four kinds.
type Value struct {
	kind ValueKind
	lit  any
	h    Handle
	tup  []Value
	m    map[string]Value
}

// ValueKind discriminates the node kinds of a realized argument tree.
type ValueKind int

const (
	KindLiteral ValueKind = iota
	KindHandle
	KindTuple
	KindMap
)

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// Literal wraps a plain value as a tree leaf.
func Literal(v any) Value { return Value{kind: KindLiteral, lit: v} }

// FromHandle wraps a handle reference as a tree leaf.
func FromHandle(h Handle) Value { return Value{kind: KindHandle, h: h} }

// Tuple builds an ordered sequence node, preserving order and arity.
func Tuple(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindTuple, tup: cp}
}

// Map builds an unordered node whose keys are literal strings.
func Map(fields map[string]Value) Value {
	cp := make(map[string]Value, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Value{kind: KindMap, m: cp}
}

// AsLiteral returns the wrapped value and true if v is a literal leaf.
func (v Value) AsLiteral() (any, bool) {
	if v.kind != KindLiteral {
		return nil, false
	}
	return v.lit, true
}

// AsHandle returns the wrapped handle and true if v is a handle leaf.
func (v Value) AsHandle() (Handle, bool) {
	if v.kind != KindHandle {
		return Handle{}, false
	}
	return v.h, true
}

// AsTuple returns the child values and true if v is a tuple node.
func (v Value) AsTuple() ([]Value, bool) {
	if v.kind != KindTuple {
		return nil, false
	}
	return v.tup, true
}

// AsMap returns the field map and true if v is a map node.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// Raw collapses v into a plain Go value (string/int/... for literals,
// []any for tuples, map[string]any for maps), substituting every handle via
// binder first. This is the shape real_command and the per-command
// postcondition receive; Precondition and NextState get the Value itself.
func (v Value) Raw(binder func(Handle) (any, error)) (any, error) {
	switch v.kind {
	case KindLiteral:
		return v.lit, nil
	case KindHandle:
		return binder(v.h)
	case KindTuple:
		out := make([]any, len(v.tup))
		for i, child := range v.tup {
			raw, err := child.Raw(binder)
			if err != nil {
				return nil, err
			}
			out[i] = raw
		}
		return out, nil
	case KindMap:
		out := make(map[string]any, len(v.m))
		for k, child := range v.m {
			raw, err := child.Raw(binder)
			if err != nil {
				return nil, err
			}
			out[k] = raw
		}
		return out, nil
	default:
		return nil, errs.NewEngineInvariantError("value-kind", fmt.Sprintf("unknown value kind %d", v.kind))
	}
}

// Handles walks v and appends every handle it references to out, depth
// first. Used to validate well-formedness (every referenced handle was
// minted earlier) and by the shrinker to find invocations that depend on a
// removed handle.
func (v Value) Handles(out []Handle) []Handle {
	switch v.kind {
	case KindHandle:
		return append(out, v.h)
	case KindTuple:
		for _, child := range v.tup {
			out = child.Handles(out)
		}
		return out
	case KindMap:
		for _, child := range v.m {
			out = child.Handles(out)
		}
		return out
	default:
		return out
	}
}
