package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"menu-recommender/internal/core/flavor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCSV = `id,name,category,ingredients,flavor_profile
1,Caesar Salad,appetizer,"['romaine lettuce', 'parmesan', 'croutons']","{'spicy': 0.1, 'sweet': 0.1, 'umami': 0.6, 'sour': 0.3, 'salty': 0.4}"
2,Grilled Salmon,mains,"['salmon', 'lemon', 'dill']","{'spicy': 0.2, 'sweet': 0.1, 'umami': 0.8, 'sour': 0.1, 'salty': 0.5}"
3,Chocolate Cake,desserts,"['chocolate', 'flour', 'sugar']","{'spicy': 0.0, 'sweet': 0.9, 'umami': 0.1, 'sour': 0.0, 'salty': 0.1}"
`

func TestParseDatasetValid(t *testing.T) {
	recipes, err := parseDataset(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Len(t, recipes, 3)

	salad := recipes[0]
	assert.Equal(t, 1, salad.ID)
	assert.Equal(t, "Caesar Salad", salad.Name)
	assert.Equal(t, flavor.CategoryAppetizer, salad.Category)
	assert.Equal(t, []string{"romaine lettuce", "parmesan", "croutons"}, salad.Ingredients)
	assert.InDelta(t, 0.6, salad.Flavor.Umami, 1e-9)
	assert.InDelta(t, 0.3, salad.Flavor.Sour, 1e-9)
}

func TestParseDatasetMissingColumn(t *testing.T) {
	csv := "id,name,category,ingredients\n1,Caesar Salad,appetizer,\"['lettuce']\"\n"

	_, err := parseDataset(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flavor_profile")
}

func TestParseDatasetMissingFlavorKey(t *testing.T) {
	csv := `name,category,ingredients,flavor_profile
Caesar Salad,appetizer,"['lettuce']","{'spicy': 0.1, 'sweet': 0.1, 'umami': 0.6, 'sour': 0.3}"
`
	_, err := parseDataset(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "salty")
}

func TestParseDatasetFlavorOutOfRange(t *testing.T) {
	csv := `name,category,ingredients,flavor_profile
Caesar Salad,appetizer,"['lettuce']","{'spicy': 1.5, 'sweet': 0.1, 'umami': 0.6, 'sour': 0.3, 'salty': 0.4}"
`
	_, err := parseDataset(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestParseDatasetUnknownCategory(t *testing.T) {
	csv := `name,category,ingredients,flavor_profile
Caesar Salad,snacks,"['lettuce']","{'spicy': 0.1, 'sweet': 0.1, 'umami': 0.6, 'sour': 0.3, 'salty': 0.4}"
`
	_, err := parseDataset(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestParseDatasetEmpty(t *testing.T) {
	csv := "name,category,ingredients,flavor_profile\n"

	_, err := parseDataset(strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recipes")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipes.csv")
	require.NoError(t, os.WriteFile(path, []byte(validCSV), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Size())

	r, ok := c.LookupExact("grilled salmon")
	require.True(t, ok)
	assert.Equal(t, flavor.CategoryMains, r.Category)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
