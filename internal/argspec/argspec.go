// Package argspec implements C3: the argument builder.
//
// An ArgSpec is the value tree a command's model_args callback returns: a
// tree whose leaves are literals, existing handles, or opaque sub-generators,
// with tuples and maps for structure. Building an ArgSpec turns it into a
// single symbolic.Value tree with every sub-generator replaced by a drawn
// value — the generator-monad leaves are the one place this engine consumes
// the external property-testing harness's generator vocabulary (see
// SPEC_FULL.md §6, D1).
package argspec

import (
	"statecheck/internal/symbolic"

	"github.com/leanovate/gopter"
)

// Kind discriminates an ArgSpec node.
type Kind int

const (
	KindLiteral Kind = iota
	KindHandleRef
	KindTuple
	KindMap
	KindGen
)

// Spec is one node of an argument specification tree.
type Spec struct {
	kind  Kind
	lit   any
	h     symbolic.Handle
	tup   []Spec
	m     map[string]Spec
	gen   gopter.Gen
	guard string // optional expr-lang guard, see guard.go
}

// Kind reports which variant s holds.
func (s Spec) Kind() Kind { return s.kind }

// Literal wraps a constant value as a leaf; it never varies across draws.
func Literal(v any) Spec { return Spec{kind: KindLiteral, lit: v} }

// Ref points at an existing handle — a reference to an earlier invocation's
// result that hasn't executed yet.
func Ref(h symbolic.Handle) Spec { return Spec{kind: KindHandleRef, h: h} }

// Tuple builds an ordered sequence node, preserving order and arity.
func Tuple(items ...Spec) Spec {
	cp := make([]Spec, len(items))
	copy(cp, items)
	return Spec{kind: KindTuple, tup: cp}
}

// Map builds an unordered node; keys are literal strings, values are
// sub-specs.
func Map(fields map[string]Spec) Spec {
	cp := make(map[string]Spec, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return Spec{kind: KindMap, m: cp}
}

// FromGen wraps an external generator-monad value (a gopter.Gen) as a leaf.
// This is the only node kind the argument builder actually draws from; every
// other kind is structural or constant.
func FromGen(g gopter.Gen) Spec { return Spec{kind: KindGen, gen: g} }

// Guarded attaches a declarative expr-lang guard to s (see guard.go and
// SPEC_FULL.md §10.1). The guard is evaluated against the concrete value
// drawn for this node; a false guard is treated exactly like a failing
// model_precondition at generation time.
func Guarded(s Spec, exprSrc string) Spec {
	s.guard = exprSrc
	return s
}

// Guard returns the node's declarative guard expression, if any.
func (s Spec) Guard() (string, bool) {
	if s.guard == "" {
		return "", false
	}
	return s.guard, true
}
