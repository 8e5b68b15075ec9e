package flavor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
		wantErr  bool
	}{
		{"appetizer", CategoryAppetizer, false},
		{"mains", CategoryMains, false},
		{"desserts", CategoryDesserts, false},
		{"Mains", CategoryMains, false},
		{"  DESSERTS  ", CategoryDesserts, false},
		{"main course", "", true},
		{"", "", true},
		{"snacks", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCategory(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, got)
	}
}

func TestCategoriesOrder(t *testing.T) {
	assert.Equal(t, []Category{CategoryAppetizer, CategoryMains, CategoryDesserts}, Categories())
}

func TestVectorValidate(t *testing.T) {
	assert.NoError(t, Vector{Spicy: 0, Sweet: 1, Umami: 0.5, Sour: 0.3, Salty: 0.4}.Validate())
	assert.Error(t, Vector{Spicy: -0.1}.Validate())
	assert.Error(t, Vector{Sweet: 1.1}.Validate())
	assert.Error(t, Vector{Umami: math.NaN()}.Validate())
}

func TestCosineIdentical(t *testing.T) {
	v := Vector{Spicy: 0.2, Sweet: 0.4, Umami: 0.6, Sour: 0.1, Salty: 0.3}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-9)
}

func TestCosineZeroVector(t *testing.T) {
	v := Vector{Spicy: 0.5, Sweet: 0.5}
	zero := Vector{}

	assert.Equal(t, 0.0, Cosine(v, zero))
	assert.Equal(t, 0.0, Cosine(zero, v))
	assert.Equal(t, 0.0, Cosine(zero, zero))
}

func TestCosineOrthogonal(t *testing.T) {
	a := Vector{Spicy: 1}
	b := Vector{Sweet: 1}
	assert.Equal(t, 0.0, Cosine(a, b))
}

func TestCosineRange(t *testing.T) {
	// 非負向量的餘弦相似度必然落在 [0,1]
	vectors := []Vector{
		{Spicy: 0.1, Sweet: 0.9},
		{Spicy: 0.9, Sweet: 0.1},
		{Umami: 1, Salty: 1},
		{Spicy: 0.33, Sweet: 0.33, Umami: 0.33, Sour: 0.33, Salty: 0.33},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			score := Cosine(a, b)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
			assert.False(t, math.IsNaN(score))
		}
	}
}

func TestMeanEmpty(t *testing.T) {
	assert.Equal(t, Vector{}, Mean(nil))
	assert.Equal(t, Vector{}, Mean([]Vector{}))
}

func TestMeanSingle(t *testing.T) {
	v := Vector{Spicy: 0.1, Sweet: 0.1, Umami: 0.6, Sour: 0.3, Salty: 0.4}
	assert.Equal(t, v, Mean([]Vector{v}))
}

func TestMeanComponents(t *testing.T) {
	a := Vector{Spicy: 0.2, Sweet: 0.4, Umami: 0.6, Sour: 0.0, Salty: 1.0}
	b := Vector{Spicy: 0.4, Sweet: 0.0, Umami: 0.2, Sour: 0.6, Salty: 0.0}

	got := Mean([]Vector{a, b})
	assert.InDelta(t, 0.3, got.Spicy, 1e-9)
	assert.InDelta(t, 0.2, got.Sweet, 1e-9)
	assert.InDelta(t, 0.4, got.Umami, 1e-9)
	assert.InDelta(t, 0.3, got.Sour, 1e-9)
	assert.InDelta(t, 0.5, got.Salty, 1e-9)
}

func TestMeanStaysInRange(t *testing.T) {
	vectors := []Vector{
		{Spicy: 1, Sweet: 1, Umami: 1, Sour: 1, Salty: 1},
		{},
		{Spicy: 0.5, Sweet: 0.5, Umami: 0.5, Sour: 0.5, Salty: 0.5},
	}
	got := Mean(vectors)
	assert.NoError(t, got.Validate())
}
