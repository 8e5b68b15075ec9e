package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"menu-recommender/internal/core/flavor"
	"menu-recommender/internal/pkg/common"
)

// 資料集必要欄位
var requiredColumns = []string{"name", "category", "ingredients", "flavor_profile"}

// Load 從 CSV 資料集載入食譜索引
// 任何欄位缺漏或風味值超出 [0,1] 都視為致命錯誤，流程不得啟動
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog dataset: %w", err)
	}
	defer f.Close()

	recipes, err := parseDataset(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog dataset %s: %w", path, err)
	}

	return New(recipes), nil
}

// parseDataset 解析 CSV 內容
func parseDataset(r io.Reader) ([]Recipe, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// 建立欄位索引
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	var recipes []Recipe
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		line++

		recipe, err := parseRow(record, columns)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		recipes = append(recipes, recipe)
	}

	if len(recipes) == 0 {
		return nil, fmt.Errorf("dataset contains no recipes")
	}

	return recipes, nil
}

// parseRow 解析單筆食譜資料
func parseRow(record []string, columns map[string]int) (Recipe, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	name := field("name")
	if name == "" {
		return Recipe{}, fmt.Errorf("empty recipe name")
	}

	category, err := flavor.ParseCategory(field("category"))
	if err != nil {
		return Recipe{}, err
	}

	ingredients, err := parseIngredients(field("ingredients"))
	if err != nil {
		return Recipe{}, fmt.Errorf("invalid ingredients for %q: %w", name, err)
	}

	vector, err := parseFlavorProfile(field("flavor_profile"))
	if err != nil {
		return Recipe{}, fmt.Errorf("invalid flavor profile for %q: %w", name, err)
	}

	id := 0
	if raw := field("id"); raw != "" {
		id, err = strconv.Atoi(raw)
		if err != nil {
			return Recipe{}, fmt.Errorf("invalid id for %q: %w", name, err)
		}
	}

	return Recipe{
		ID:          id,
		Name:        name,
		Category:    category,
		Ingredients: ingredients,
		Flavor:      vector,
	}, nil
}

// parseIngredients 解析食材欄位（Python list 字面值或 JSON 陣列）
func parseIngredients(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}

	var ingredients []string
	if err := common.ParseJSON(common.PyLiteralToJSON(raw), &ingredients); err != nil {
		return nil, err
	}
	return ingredients, nil
}

// parseFlavorProfile 解析風味欄位，五個風味鍵缺一不可
func parseFlavorProfile(raw string) (flavor.Vector, error) {
	if raw == "" {
		return flavor.Vector{}, fmt.Errorf("empty flavor profile")
	}

	var values map[string]float64
	if err := common.ParseJSON(common.PyLiteralToJSON(raw), &values); err != nil {
		return flavor.Vector{}, err
	}

	keys := []string{"spicy", "sweet", "umami", "sour", "salty"}
	for _, key := range keys {
		if _, ok := values[key]; !ok {
			return flavor.Vector{}, fmt.Errorf("missing flavor key: %s", key)
		}
	}

	v := flavor.Vector{
		Spicy: values["spicy"],
		Sweet: values["sweet"],
		Umami: values["umami"],
		Sour:  values["sour"],
		Salty: values["salty"],
	}
	if err := v.Validate(); err != nil {
		return flavor.Vector{}, err
	}
	return v, nil
}
