package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelsEnumeration(t *testing.T) {
	models := Models()
	require.Len(t, models, 3)

	assert.Equal(t, TierFast, models[0].Tier)
	assert.Equal(t, "gemini-1.5-flash", models[0].Model)
	assert.Equal(t, TierBalanced, models[1].Tier)
	assert.Equal(t, "gemini-1.5-pro", models[1].Model)
	assert.Equal(t, TierLegacy, models[2].Tier)
	assert.Equal(t, "gemini-pro", models[2].Model)

	// Callers get a copy, not the shared slice.
	models[0].Model = "mutated"
	assert.Equal(t, "gemini-1.5-flash", Models()[0].Model)
}

func TestResolveTier(t *testing.T) {
	model, ok := ResolveTier("fast")
	require.True(t, ok)
	assert.Equal(t, "gemini-1.5-flash", model)

	_, ok = ResolveTier("turbo")
	assert.False(t, ok)

	_, ok = ResolveTier("")
	assert.False(t, ok)
}

func TestTierForModel(t *testing.T) {
	tier, ok := TierForModel("gemini-1.5-pro")
	require.True(t, ok)
	assert.Equal(t, TierBalanced, tier)

	_, ok = TierForModel("gpt-4")
	assert.False(t, ok)
}
