package flavor

import (
	"fmt"
	"strings"
)

// Category 菜色分類（封閉列舉，避免字串比對錯誤默默通過）
type Category string

const (
	CategoryAppetizer Category = "appetizer"
	CategoryMains     Category = "mains"
	CategoryDesserts  Category = "desserts"
)

// Categories 回傳固定順序的分類列表
func Categories() []Category {
	return []Category{CategoryAppetizer, CategoryMains, CategoryDesserts}
}

// ParseCategory 解析分類字串，無效分類回傳錯誤而非預設值
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryAppetizer:
		return CategoryAppetizer, nil
	case CategoryMains:
		return CategoryMains, nil
	case CategoryDesserts:
		return CategoryDesserts, nil
	default:
		return "", fmt.Errorf("unknown category: %q", s)
	}
}

// Valid 檢查分類是否合法
func (c Category) Valid() bool {
	switch c {
	case CategoryAppetizer, CategoryMains, CategoryDesserts:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}
