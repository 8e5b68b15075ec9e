package catalog

import (
	"sort"
	"strings"

	"menu-recommender/internal/core/flavor"
)

// Recipe 單筆食譜，載入後不再變動
type Recipe struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Category    flavor.Category `json:"category"`
	Ingredients []string        `json:"ingredients"`
	Flavor      flavor.Vector   `json:"flavor_profile"`
}

// Catalog 食譜索引
// 啟動時建立一次，之後只讀，可以跨請求共用不加鎖
type Catalog struct {
	byName  map[string]*Recipe
	recipes []*Recipe // 依正規化名稱排序
}

// NormalizeName 名稱正規化：食譜身分以不分大小寫的名稱為準
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// New 建立食譜索引
// 名稱重複時保留先出現的那一筆
func New(recipes []Recipe) *Catalog {
	c := &Catalog{
		byName: make(map[string]*Recipe, len(recipes)),
	}

	for i := range recipes {
		r := &recipes[i]
		key := NormalizeName(r.Name)
		if key == "" {
			continue
		}
		if _, exists := c.byName[key]; exists {
			continue
		}
		c.byName[key] = r
		c.recipes = append(c.recipes, r)
	}

	sort.Slice(c.recipes, func(i, j int) bool {
		return NormalizeName(c.recipes[i].Name) < NormalizeName(c.recipes[j].Name)
	})

	return c
}

// LookupExact 以名稱精確查找（不分大小寫）
func (c *Catalog) LookupExact(name string) (*Recipe, bool) {
	r, ok := c.byName[NormalizeName(name)]
	return r, ok
}

// Search 名稱子字串搜尋，回傳至多 limit 筆
// 排序：前綴命中優先，其次名稱較短者，最後依字典序
func (c *Catalog) Search(query string, limit int) []*Recipe {
	q := NormalizeName(query)
	if q == "" || limit <= 0 {
		return nil
	}

	var matches []*Recipe
	for _, r := range c.recipes {
		if strings.Contains(NormalizeName(r.Name), q) {
			matches = append(matches, r)
		}
	}

	// recipes 已依字典序排列，穩定排序保留字典序作為最終決勝
	sort.SliceStable(matches, func(i, j int) bool {
		ni, nj := NormalizeName(matches[i].Name), NormalizeName(matches[j].Name)
		pi, pj := strings.HasPrefix(ni, q), strings.HasPrefix(nj, q)
		if pi != pj {
			return pi
		}
		return len(ni) < len(nj)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// All 回傳全部食譜（依名稱排序）
func (c *Catalog) All() []*Recipe {
	return c.recipes
}

// Size 回傳食譜筆數
func (c *Catalog) Size() int {
	return len(c.recipes)
}
