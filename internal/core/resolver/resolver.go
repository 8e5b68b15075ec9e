package resolver

import (
	"strings"
	"unicode"

	"menu-recommender/internal/core/catalog"
	"menu-recommender/internal/core/flavor"
	"menu-recommender/internal/infrastructure/config"
)

// DishRef 使用者或菜單提供、尚未比對的菜名
type DishRef struct {
	Name     string          `json:"name"`
	Category flavor.Category `json:"category"`
}

// ResolvedDish 比對結果，Recipe 為 nil 表示沒有命中
// 呼叫端以過濾的方式略過未命中的菜，不讓單一菜名拖垮整個請求
type ResolvedDish struct {
	Ref    DishRef
	Recipe *catalog.Recipe
}

// Matched 檢查是否有命中食譜
func (d ResolvedDish) Matched() bool {
	return d.Recipe != nil
}

// Resolver 菜名比對器
type Resolver struct {
	catalog     *catalog.Catalog
	minTokenLen int
	stopWords   map[string]struct{}
}

// New 建立菜名比對器
func New(cat *catalog.Catalog, cfg config.ResolverConfig) *Resolver {
	stopWords := make(map[string]struct{}, len(cfg.StopWords))
	for _, w := range cfg.StopWords {
		stopWords[strings.ToLower(w)] = struct{}{}
	}
	minTokenLen := cfg.MinTokenLen
	if minTokenLen <= 0 {
		minTokenLen = 3
	}
	return &Resolver{
		catalog:     cat,
		minTokenLen: minTokenLen,
		stopWords:   stopWords,
	}
}

// Resolve 將菜名比對到食譜
// 先精確比對，再退回模糊搜尋；模糊候選必須和查詢共享至少一個有效 token
func (r *Resolver) Resolve(name string) (*catalog.Recipe, bool) {
	normalized := catalog.NormalizeName(name)
	if normalized == "" {
		return nil, false
	}

	if recipe, ok := r.catalog.LookupExact(normalized); ok {
		return recipe, true
	}

	candidates := r.catalog.Search(normalized, 1)
	if len(candidates) == 0 {
		return nil, false
	}

	candidate := candidates[0]
	if !r.shareSignificantToken(normalized, catalog.NormalizeName(candidate.Name)) {
		return nil, false
	}
	return candidate, true
}

// shareSignificantToken 檢查兩個名稱是否共享有效 token
func (r *Resolver) shareSignificantToken(a, b string) bool {
	tokensA := r.significantTokens(a)
	if len(tokensA) == 0 {
		return false
	}
	for t := range r.significantTokens(b) {
		if _, ok := tokensA[t]; ok {
			return true
		}
	}
	return false
}

// significantTokens 取出有效 token：長度達標且不是停用詞
func (r *Resolver) significantTokens(s string) map[string]struct{} {
	tokens := strings.FieldsFunc(s, func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsDigit(c)
	})

	result := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if len(t) < r.minTokenLen {
			continue
		}
		if _, stop := r.stopWords[t]; stop {
			continue
		}
		result[t] = struct{}{}
	}
	return result
}
