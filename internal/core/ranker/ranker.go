package ranker

import (
	"sort"

	"menu-recommender/internal/core/catalog"
	"menu-recommender/internal/core/flavor"
	"menu-recommender/internal/core/resolver"
)

// Recommendation 一筆推薦：食譜、評分依據的分類與相似度分數
// DishName 保留菜單上的原始寫法，前端顯示以菜單為準
type Recommendation struct {
	Recipe   *catalog.Recipe
	DishName string
	Category flavor.Category
	Score    float64
}

// Rank 將菜單菜色依使用者輪廓評分並排序
// 未命中的菜與輪廓中缺席的分類直接排除，不產生零分項目
// 同分類內以食譜身分去重；排序為分數遞減、同分依食譜名稱遞增
func Rank(dishes []resolver.ResolvedDish, userProfile flavor.Profile) map[flavor.Category][]Recommendation {
	result := make(map[flavor.Category][]Recommendation)
	seen := make(map[flavor.Category]map[string]struct{})

	for _, dish := range dishes {
		if !dish.Matched() {
			continue
		}

		category := dish.Ref.Category
		profileVector, ok := userProfile[category]
		if !ok {
			continue
		}

		identity := catalog.NormalizeName(dish.Recipe.Name)
		if seen[category] == nil {
			seen[category] = make(map[string]struct{})
		}
		if _, dup := seen[category][identity]; dup {
			continue
		}
		seen[category][identity] = struct{}{}

		result[category] = append(result[category], Recommendation{
			Recipe:   dish.Recipe,
			DishName: dish.Ref.Name,
			Category: category,
			Score:    flavor.Cosine(dish.Recipe.Flavor, profileVector),
		})
	}

	for category := range result {
		recs := result[category]
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].Score != recs[j].Score {
				return recs[i].Score > recs[j].Score
			}
			return catalog.NormalizeName(recs[i].Recipe.Name) < catalog.NormalizeName(recs[j].Recipe.Name)
		})
	}

	return result
}
