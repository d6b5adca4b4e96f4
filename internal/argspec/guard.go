package argspec

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"statecheck/internal/errs"
)

// GuardEvaluator evaluates the declarative expr-lang guards attached to
// ArgSpec nodes (§10.1). A guard is a cheap, string-expressed reject filter
// checked before model_precondition ever runs, so a generator can discard an
// obviously-unusable draw without round-tripping through the full model.
//
// Compiled programs are cached by expression text; unlike the teacher's
// per-execution result cache, guard results are never cached, since the
// value a guard sees changes on every draw.
type GuardEvaluator struct {
	mu    sync.RWMutex
	cache map[string]*vm.Program
}

// NewGuardEvaluator returns an evaluator with an empty compile cache.
func NewGuardEvaluator() *GuardEvaluator {
	return &GuardEvaluator{cache: make(map[string]*vm.Program)}
}

// Eval compiles (or reuses a compiled) guard expression and runs it against
// the drawn value. The value is always exposed as the "value" variable; if it
// is itself a map, its fields are additionally spread into the environment so
// a guard can write `quantity > 0` instead of `value.quantity > 0`.
func (g *GuardEvaluator) Eval(guardSrc string, drawn any) (bool, error) {
	program, err := g.compiled(guardSrc)
	if err != nil {
		return false, err
	}

	env := map[string]any{"value": drawn}
	if m, ok := drawn.(map[string]any); ok {
		for k, v := range m {
			env[k] = v
		}
	}

	out, err := expr.Run(program, env)
	if err != nil {
		if isUndefinedVar(err) {
			// A guard referencing a field the draw doesn't have is simply not
			// satisfied yet, not a program bug.
			return false, nil
		}
		return false, errs.NewUserCommandError("guard", "", fmt.Errorf("evaluating guard %q: %w", guardSrc, err))
	}

	b, ok := out.(bool)
	if !ok {
		return false, errs.NewUserCommandError("guard", "", fmt.Errorf("guard %q must return bool, got %T", guardSrc, out))
	}
	return b, nil
}

func (g *GuardEvaluator) compiled(guardSrc string) (*vm.Program, error) {
	g.mu.RLock()
	p, ok := g.cache[guardSrc]
	g.mu.RUnlock()
	if ok {
		return p, nil
	}

	p, err := expr.Compile(guardSrc, expr.AsBool())
	if err != nil {
		return nil, errs.NewUserCommandError("guard", "", fmt.Errorf("compiling guard %q: %w", guardSrc, err))
	}

	g.mu.Lock()
	g.cache[guardSrc] = p
	g.mu.Unlock()
	return p, nil
}

func isUndefinedVar(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"cannot fetch", "undefined", "unknown name", "not found"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
