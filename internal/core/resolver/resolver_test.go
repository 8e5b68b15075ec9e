package resolver

import (
	"testing"

	"menu-recommender/internal/core/catalog"
	"menu-recommender/internal/core/flavor"
	"menu-recommender/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Recipe{
		{ID: 1, Name: "Caesar Salad", Category: flavor.CategoryAppetizer},
		{ID: 2, Name: "Grilled Salmon", Category: flavor.CategoryMains},
		{ID: 3, Name: "Chicken Curry", Category: flavor.CategoryMains},
		{ID: 4, Name: "The House Special", Category: flavor.CategoryMains},
	})
}

func testResolver() *Resolver {
	return New(testCatalog(), config.ResolverConfig{
		MinTokenLen: 3,
		StopWords:   []string{"the", "and", "with", "of", "a", "an"},
	})
}

func TestResolveExact(t *testing.T) {
	r := testResolver()

	recipe, ok := r.Resolve("Chicken Curry")
	require.True(t, ok)
	assert.Equal(t, 3, recipe.ID)
}

func TestResolveExactCaseInsensitive(t *testing.T) {
	r := testResolver()

	recipe, ok := r.Resolve("  GRILLED salmon ")
	require.True(t, ok)
	assert.Equal(t, 2, recipe.ID)
}

func TestResolveFuzzySharedToken(t *testing.T) {
	r := testResolver()

	// "salad" 是 "Caesar Salad" 的有效 token，模糊比對放行
	recipe, ok := r.Resolve("salad")
	require.True(t, ok)
	assert.Equal(t, "Caesar Salad", recipe.Name)
}

func TestResolveFuzzyRejectsPartialToken(t *testing.T) {
	r := testResolver()

	// "sal" 會子字串命中兩筆食譜，但不與任何一筆共享完整 token
	_, ok := r.Resolve("sal")
	assert.False(t, ok)
}

func TestResolveStopWordsNotSignificant(t *testing.T) {
	r := testResolver()

	// "the" 是停用詞，不能作為模糊比對的依據
	_, ok := r.Resolve("the")
	assert.False(t, ok)
}

func TestResolveNoMatch(t *testing.T) {
	r := testResolver()

	_, ok := r.Resolve("sushi platter")
	assert.False(t, ok)

	_, ok = r.Resolve("")
	assert.False(t, ok)

	_, ok = r.Resolve("   ")
	assert.False(t, ok)
}

func TestSignificantTokens(t *testing.T) {
	r := testResolver()

	tokens := r.significantTokens("the spicy chicken-wings of doom")
	assert.Contains(t, tokens, "spicy")
	assert.Contains(t, tokens, "chicken")
	assert.Contains(t, tokens, "wings")
	assert.Contains(t, tokens, "doom")
	assert.NotContains(t, tokens, "the")
	assert.NotContains(t, tokens, "of")
}
