package resolver

import (
	"context"
	"testing"

	"menu-recommender/internal/core/flavor"
	"menu-recommender/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool(workers, maxSize int) *Pool {
	return NewPool(testResolver(), config.QueueConfig{
		Workers: workers,
		MaxSize: maxSize,
	})
}

func TestResolveAllPreservesOrder(t *testing.T) {
	pool := testPool(4, 100)

	refs := []DishRef{
		{Name: "Chicken Curry", Category: flavor.CategoryMains},
		{Name: "Unknown Dish", Category: flavor.CategoryMains},
		{Name: "Caesar Salad", Category: flavor.CategoryAppetizer},
		{Name: "Grilled Salmon", Category: flavor.CategoryMains},
	}

	results := pool.ResolveAll(context.Background(), refs)
	require.Len(t, results, 4)

	for i, res := range results {
		assert.Equal(t, refs[i], res.Ref, "index %d", i)
	}

	assert.True(t, results[0].Matched())
	assert.False(t, results[1].Matched())
	assert.True(t, results[2].Matched())
	assert.True(t, results[3].Matched())

	assert.Equal(t, "Chicken Curry", results[0].Recipe.Name)
	assert.Equal(t, "Caesar Salad", results[2].Recipe.Name)
}

func TestResolveAllEmpty(t *testing.T) {
	pool := testPool(4, 100)

	results := pool.ResolveAll(context.Background(), nil)
	assert.Empty(t, results)
}

func TestResolveAllTruncatesToMaxSize(t *testing.T) {
	pool := testPool(2, 3)

	refs := make([]DishRef, 10)
	for i := range refs {
		refs[i] = DishRef{Name: "Chicken Curry", Category: flavor.CategoryMains}
	}

	results := pool.ResolveAll(context.Background(), refs)
	assert.Len(t, results, 3)
}

func TestResolveAllCancelledContext(t *testing.T) {
	pool := testPool(1, 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	refs := make([]DishRef, 50)
	for i := range refs {
		refs[i] = DishRef{Name: "Caesar Salad", Category: flavor.CategoryAppetizer}
	}

	// 取消後不得卡死，且每個輸入都有對應的結果
	results := pool.ResolveAll(ctx, refs)
	require.Len(t, results, 50)
	for i, res := range results {
		assert.Equal(t, refs[i], res.Ref, "index %d", i)
	}
}

func TestResolveAllSingleWorker(t *testing.T) {
	pool := testPool(1, 100)

	refs := []DishRef{
		{Name: "Grilled Salmon", Category: flavor.CategoryMains},
		{Name: "Chocolate Cake", Category: flavor.CategoryDesserts},
	}

	results := pool.ResolveAll(context.Background(), refs)
	require.Len(t, results, 2)
	assert.True(t, results[0].Matched())
	assert.False(t, results[1].Matched())
}
