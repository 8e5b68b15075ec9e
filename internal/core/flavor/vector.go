package flavor

import (
	"fmt"
	"math"
)

// Vector 五維風味向量，每個分量皆落在 [0,1]
type Vector struct {
	Spicy float64 `json:"spicy"`
	Sweet float64 `json:"sweet"`
	Umami float64 `json:"umami"`
	Sour  float64 `json:"sour"`
	Salty float64 `json:"salty"`
}

// Profile 使用者風味輪廓：分類 → 風味向量
// 沒有輸入的分類直接缺席，不補零向量
type Profile map[Category]Vector

// components 以固定順序回傳分量（spicy, sweet, umami, sour, salty）
func (v Vector) components() [5]float64 {
	return [5]float64{v.Spicy, v.Sweet, v.Umami, v.Sour, v.Salty}
}

// Validate 檢查所有分量是否落在 [0,1]
func (v Vector) Validate() error {
	names := [5]string{"spicy", "sweet", "umami", "sour", "salty"}
	for i, c := range v.components() {
		if math.IsNaN(c) || c < 0 || c > 1 {
			return fmt.Errorf("flavor component %s out of range [0,1]: %v", names[i], c)
		}
	}
	return nil
}

// IsZero 檢查是否為零向量
func (v Vector) IsZero() bool {
	for _, c := range v.components() {
		if c != 0 {
			return false
		}
	}
	return true
}

// Cosine 計算兩個風味向量的餘弦相似度，夾限在 [0,1]
// 任一方為零向量時回傳 0，不做除以零
func Cosine(a, b Vector) float64 {
	ac, bc := a.components(), b.components()

	var dot, na, nb float64
	for i := 0; i < 5; i++ {
		dot += ac[i] * bc[i]
		na += ac[i] * ac[i]
		nb += bc[i] * bc[i]
	}

	if na == 0 || nb == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if math.IsNaN(sim) || sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// Mean 計算向量的分量平均：先全部加總再除一次
// 呼叫端須以固定順序傳入，確保結果可重現
func Mean(vectors []Vector) Vector {
	if len(vectors) == 0 {
		return Vector{}
	}

	var sum [5]float64
	for _, v := range vectors {
		c := v.components()
		for i := 0; i < 5; i++ {
			sum[i] += c[i]
		}
	}

	n := float64(len(vectors))
	return Vector{
		Spicy: sum[0] / n,
		Sweet: sum[1] / n,
		Umami: sum[2] / n,
		Sour:  sum[3] / n,
		Salty: sum[4] / n,
	}
}
