package shrink

import "statecheck/internal/symbolic"

// Literal returns progressively smaller candidates for a single literal leaf
// value, ordered from most-aggressive shrink to least. This is deliberately
// independent of the external generator monad's own shrinkers: C3 only ever
// calls Gen.Sample, which hands back a value with no shrink history attached,
// so argument shrinking is engine-authored the same way program-structure
// shrinking is (see SPEC_FULL.md §10.2).
func Literal(v any) []any {
	switch x := v.(type) {
	case int:
		return intCandidates(x, func(n int) any { return n })
	case int32:
		return intCandidates(int(x), func(n int) any { return int32(n) })
	case int64:
		return intCandidates(int(x), func(n int) any { return int64(n) })
	case uint:
		return uintCandidates(uint64(x), func(n uint64) any { return uint(n) })
	case uint64:
		return uintCandidates(x, func(n uint64) any { return n })
	case float64:
		return floatCandidates(x)
	case string:
		return stringCandidates(x)
	case bool:
		if x {
			return []any{false}
		}
		return nil
	case []any:
		return sliceCandidates(x)
	default:
		return nil
	}
}

func intCandidates(x int, wrap func(int) any) []any {
	if x == 0 {
		return nil
	}
	var out []any
	out = append(out, wrap(0))
	if x < 0 {
		out = append(out, wrap(-x))
	}
	for d := x / 2; d != 0 && d != x; d = d / 2 {
		out = append(out, wrap(d))
		if d == x/2 && d == 0 {
			break
		}
	}
	if x > 0 {
		out = append(out, wrap(x-1))
	} else {
		out = append(out, wrap(x+1))
	}
	return out
}

func uintCandidates(x uint64, wrap func(uint64) any) []any {
	if x == 0 {
		return nil
	}
	var out []any
	out = append(out, wrap(0))
	for d := x / 2; d != 0; d /= 2 {
		out = append(out, wrap(d))
	}
	out = append(out, wrap(x-1))
	return out
}

func floatCandidates(x float64) []any {
	if x == 0 {
		return nil
	}
	var out []any
	out = append(out, 0.0)
	if x < 0 {
		out = append(out, -x)
	}
	out = append(out, x/2)
	return out
}

func stringCandidates(s string) []any {
	if s == "" {
		return nil
	}
	var out []any
	out = append(out, "")
	if len(s) > 1 {
		out = append(out, s[:len(s)/2])
		out = append(out, s[1:])
		out = append(out, s[:len(s)-1])
	}
	return out
}

func sliceCandidates(s []any) []any {
	if len(s) == 0 {
		return nil
	}
	var out []any
	out = append(out, []any{})
	if len(s) > 1 {
		half := s[:len(s)/2]
		out = append(out, append([]any{}, half...))
		out = append(out, append([]any{}, s[1:]...))
		out = append(out, append([]any{}, s[:len(s)-1]...))
	}
	return out
}

// Value returns smaller candidates for a whole argument tree, shrinking at
// most one literal leaf per candidate so each candidate differs from the
// original by the smallest possible amount — important for the shrinker's
// "smallest change first" search order.
func Value(v symbolic.Value) []symbolic.Value {
	switch v.Kind() {
	case symbolic.KindLiteral:
		lit, _ := v.AsLiteral()
		var out []symbolic.Value
		for _, cand := range Literal(lit) {
			out = append(out, symbolic.Literal(cand))
		}
		return out

	case symbolic.KindTuple:
		items, _ := v.AsTuple()
		var out []symbolic.Value
		for i, child := range items {
			for _, shrunk := range Value(child) {
				cp := append([]symbolic.Value(nil), items...)
				cp[i] = shrunk
				out = append(out, symbolic.Tuple(cp...))
			}
		}
		return out

	case symbolic.KindMap:
		fields, _ := v.AsMap()
		var out []symbolic.Value
		for k, child := range fields {
			for _, shrunk := range Value(child) {
				cp := make(map[string]symbolic.Value, len(fields))
				for k2, v2 := range fields {
					cp[k2] = v2
				}
				cp[k] = shrunk
				out = append(out, symbolic.Map(cp))
			}
		}
		return out

	default:
		return nil
	}
}
