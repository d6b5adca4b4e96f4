package argspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardEvaluator_ShouldReportNotSatisfied_WhenExpressionReferencesMissingField(t *testing.T) {
	g := NewGuardEvaluator()
	ok, err := g.Eval("missing_field > 0", map[string]any{"present": 1})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGuardEvaluator_ShouldCacheCompiledPrograms_WhenEvaluatedTwice(t *testing.T) {
	g := NewGuardEvaluator()
	_, err := g.Eval("value > 0", 1)
	require.NoError(t, err)
	_, ok := g.cache["value > 0"]
	assert.True(t, ok)

	// Second call reuses the cached program rather than recompiling.
	ok2, err := g.Eval("value > 0", 5)
	require.NoError(t, err)
	assert.True(t, ok2)
}

func TestGuardEvaluator_ShouldReturnError_WhenExpressionFailsToCompile(t *testing.T) {
	g := NewGuardEvaluator()
	_, err := g.Eval("value >>> bad syntax (((", 1)
	assert.Error(t, err)
}

func TestGuardEvaluator_ShouldReturnError_WhenExpressionDoesNotReturnBool(t *testing.T) {
	g := NewGuardEvaluator()
	_, err := g.Eval("value + 1", 1)
	assert.Error(t, err)
}
