package runner

import (
	"github.com/puzpuzpuz/xsync/v3"

	"statecheck/internal/symbolic"
)

// ConcurrentBindings is the parallel-phase counterpart to symbolic.Bindings:
// every thread of a parallel section publishes its own invocations'
// outcomes into the same map, so a thread can read a handle bound by an
// earlier thread once this engine starts supporting cross-thread handle
// references. Reads and writes during the parallel phase therefore need a
// genuine concurrency-safe map rather than symbolic.Bindings' plain map,
// which is only ever written by one goroutine at a time (SPEC_FULL.md §5,
// §10.3).
type ConcurrentBindings struct {
	m *xsync.MapOf[symbolic.Handle, symbolic.Outcome]
}

// NewConcurrentBindings returns an empty concurrency-safe binding set.
func NewConcurrentBindings() *ConcurrentBindings {
	return &ConcurrentBindings{m: xsync.NewMapOf[symbolic.Handle, symbolic.Outcome]()}
}

// Bind publishes the outcome of handle h. Safe to call from any thread.
func (c *ConcurrentBindings) Bind(h symbolic.Handle, o symbolic.Outcome) {
	c.m.Store(h, o)
}

// Lookup returns the outcome bound to h, or false if nothing is bound yet.
// The underlying map guarantees a happens-before relationship between a
// Bind and any Lookup that observes it, so a thread reading a handle
// another thread just bound always sees a fully-formed Outcome, never a
// partial write.
func (c *ConcurrentBindings) Lookup(h symbolic.Handle) (symbolic.Outcome, bool) {
	return c.m.Load(h)
}

// ToBindings drains c into a plain, no-longer-mutated symbolic.Bindings for
// the sequential consumers that run after the parallel phase completes
// (the linearizability checker and the failure reporter).
func (c *ConcurrentBindings) ToBindings() *symbolic.Bindings {
	out := symbolic.NewBindings()
	c.m.Range(func(h symbolic.Handle, o symbolic.Outcome) bool {
		out.Bind(h, o)
		return true
	})
	return out
}
