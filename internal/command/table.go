package command

import (
	"sync"

	"statecheck/internal/errs"
)

// Table is the registered set of commands a Spec can generate from,
// grounded on the teacher's node.Registry (internal/node/registry.go): a
// name-keyed registry guarded by a single RWMutex, with deterministic
// iteration for generation via Names/Enabled.
type Table struct {
	mu   sync.RWMutex
	byID map[string]Command
	// order preserves registration order so generation's candidate-command
	// listing is deterministic across runs given the same seed.
	order []string
}

// NewTable returns an empty command table.
func NewTable() *Table {
	return &Table{byID: make(map[string]Command)}
}

// Register adds c to the table. Registering two commands under the same
// name is an engine invariant violation: names double as trace and
// shrink-log identifiers and must be unique.
func (t *Table) Register(c Command) error {
	if err := c.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.byID[c.Name]; exists {
		return errs.NewEngineInvariantError("command-table", "command \""+c.Name+"\" already registered")
	}
	t.byID[c.Name] = c
	t.order = append(t.order, c.Name)
	return nil
}

// Get returns the command registered under name.
func (t *Table) Get(name string) (Command, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.byID[name]
	return c, ok
}

// Names returns every registered command name in registration order.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Enabled returns every command whose Requires callback allows proposing it
// against state (a nil Requires always allows it), in registration order.
func (t *Table) Enabled(state any) []Command {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Command, 0, len(t.order))
	for _, name := range t.order {
		c := t.byID[name]
		if c.Requires == nil || c.Requires(state) {
			out = append(out, c)
		}
	}
	return out
}

// Len reports how many commands are registered.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}
