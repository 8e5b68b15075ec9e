package profile

import (
	"sort"

	"menu-recommender/internal/core/catalog"
	"menu-recommender/internal/core/flavor"
	"menu-recommender/internal/core/resolver"
	"menu-recommender/internal/pkg/common"
)

// Build 從比對成功的菜色建立使用者風味輪廓
// 每個有命中的分類取該分類所有食譜向量的分量平均；沒有命中的分類不出現在結果裡
// 沒有任何菜色命中時回傳 common.ErrEmptyInput（由呼叫端轉為請求層級失敗）
func Build(dishes []resolver.ResolvedDish) (flavor.Profile, error) {
	grouped := make(map[flavor.Category][]*catalog.Recipe)
	matched := 0

	for _, dish := range dishes {
		if !dish.Matched() {
			continue
		}
		category := dish.Ref.Category
		if !category.Valid() {
			continue
		}
		grouped[category] = append(grouped[category], dish.Recipe)
		matched++
	}

	if matched == 0 {
		return nil, common.ErrEmptyInput
	}

	result := make(flavor.Profile, len(grouped))
	for category, recipes := range grouped {
		// 固定以食譜名稱排序後再加總，輸入順序不影響浮點累加結果
		sort.Slice(recipes, func(i, j int) bool {
			return catalog.NormalizeName(recipes[i].Name) < catalog.NormalizeName(recipes[j].Name)
		})

		vectors := make([]flavor.Vector, len(recipes))
		for i, r := range recipes {
			vectors[i] = r.Flavor
		}
		result[category] = flavor.Mean(vectors)
	}

	return result, nil
}
