package argspec

import (
	"testing"

	"github.com/leanovate/gopter/gen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statecheck/internal/symbolic"
)

func TestBuilder_ShouldDrawLiteralsUnchanged_WhenSpecHasNoGenNodes(t *testing.T) {
	b := NewBuilder()
	spec := Tuple(Literal(1), Literal("two"))

	v, ok, err := b.Build(spec)
	require.NoError(t, err)
	require.True(t, ok)

	items, _ := v.AsTuple()
	lit0, _ := items[0].AsLiteral()
	lit1, _ := items[1].AsLiteral()
	assert.Equal(t, 1, lit0)
	assert.Equal(t, "two", lit1)
}

func TestBuilder_ShouldPreserveHandleReferences_WhenSpecContainsARef(t *testing.T) {
	h := symbolic.Handle{}
	b := NewBuilder()
	v, ok, err := b.Build(Ref(h))
	require.NoError(t, err)
	require.True(t, ok)

	got, isHandle := v.AsHandle()
	assert.True(t, isHandle)
	assert.Equal(t, h, got)
}

func TestBuilder_ShouldDrawFromGen_WhenSpecHasAGenLeaf(t *testing.T) {
	b := NewBuilder()
	spec := FromGen(gen.Const(42))

	v, ok, err := b.Build(spec)
	require.NoError(t, err)
	require.True(t, ok)

	lit, _ := v.AsLiteral()
	assert.Equal(t, 42, lit)
}

func TestBuilder_ShouldRejectDraw_WhenGuardFails(t *testing.T) {
	b := NewBuilder()
	spec := Guarded(FromGen(gen.Const(-5)), "value >= 0")

	_, ok, err := b.Build(spec)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBuilder_ShouldAcceptDraw_WhenGuardPasses(t *testing.T) {
	b := NewBuilder()
	spec := Guarded(FromGen(gen.Const(5)), "value >= 0")

	v, ok, err := b.Build(spec)
	require.NoError(t, err)
	require.True(t, ok)
	lit, _ := v.AsLiteral()
	assert.Equal(t, 5, lit)
}

func TestBuilder_ShouldEvaluateGuardAgainstMapFields_WhenDrawIsAMap(t *testing.T) {
	b := NewBuilder()
	spec := Guarded(Map(map[string]Spec{"quantity": Literal(3)}), "quantity > 0")

	_, ok, err := b.Build(spec)
	require.NoError(t, err)
	assert.True(t, ok)
}
