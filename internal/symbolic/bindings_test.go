package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindings_ShouldSubstituteEveryHandle_WhenAllAreBound(t *testing.T) {
	r := NewRegistry()
	h1, h2 := r.Mint(), r.Mint()

	b := NewBindings()
	b.Bind(h1, OutcomeValue(10))
	b.Bind(h2, OutcomeValue(20))

	tree := Tuple(FromHandle(h1), Map(map[string]Value{"x": FromHandle(h2)}))
	substituted, err := b.Substitute(tree)
	require.NoError(t, err)

	items, ok := substituted.AsTuple()
	require.True(t, ok)
	lit, ok := items[0].AsLiteral()
	require.True(t, ok)
	assert.Equal(t, 10, lit)

	fields, ok := items[1].AsMap()
	require.True(t, ok)
	xLit, _ := fields["x"].AsLiteral()
	assert.Equal(t, 20, xLit)
}

func TestBindings_ShouldReturnEngineInvariantError_WhenHandleNeverBound(t *testing.T) {
	r := NewRegistry()
	h := r.Mint()
	b := NewBindings()

	_, err := b.Resolve(h)
	assert.Error(t, err)
}

func TestBindings_ShouldReturnEngineInvariantError_WhenHandleBoundToException(t *testing.T) {
	r := NewRegistry()
	h := r.Mint()
	b := NewBindings()
	b.Bind(h, OutcomeException(assertError("user command failed")))

	_, err := b.Resolve(h)
	assert.Error(t, err)
}

func TestBindings_ShouldRangeOverEveryBoundHandle_WhenDrainedForConcurrentPhase(t *testing.T) {
	r := NewRegistry()
	h1, h2 := r.Mint(), r.Mint()
	b := NewBindings()
	b.Bind(h1, OutcomeValue("a"))
	b.Bind(h2, OutcomeValue("b"))

	seen := make(map[Handle]Outcome)
	b.Range(func(h Handle, o Outcome) { seen[h] = o })

	assert.Len(t, seen, 2)
	assert.Equal(t, "a", seen[h1].Value())
	assert.Equal(t, "b", seen[h2].Value())
}
