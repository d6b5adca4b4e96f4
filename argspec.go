package statecheck

import (
	"github.com/leanovate/gopter"

	"statecheck/internal/argspec"
)

// ArgSpec is the value tree a command's Args callback returns: literals,
// references to earlier handles, tuples, maps, and generator leaves drawn
// from the external generator monad.
type ArgSpec = argspec.Spec

// Literal wraps a constant value as an ArgSpec leaf.
func Literal(v any) ArgSpec { return argspec.Literal(v) }

// Ref points at an earlier invocation's handle.
func Ref(h Handle) ArgSpec { return argspec.Ref(h) }

// Tuple builds an ordered ArgSpec node.
func Tuple(items ...ArgSpec) ArgSpec { return argspec.Tuple(items...) }

// Map builds an unordered ArgSpec node keyed by literal strings.
func Map(fields map[string]ArgSpec) ArgSpec { return argspec.Map(fields) }

// Gen wraps an external generator-monad value (a gopter.Gen) as an ArgSpec
// leaf — the point where this engine consumes the generator monad's
// return/map/bind/frequency/sized vocabulary (SPEC_FULL.md §6, D1).
func Gen(g gopter.Gen) ArgSpec { return argspec.FromGen(g) }

// Guarded attaches a declarative expr-lang guard to spec: a cheap reject
// filter checked before model_precondition, evaluated against the drawn
// value exposed as the "value" variable (and, if it's a map, also spread
// into the environment field by field). See SPEC_FULL.md §10.1.
func Guarded(spec ArgSpec, guardExpr string) ArgSpec { return argspec.Guarded(spec, guardExpr) }
