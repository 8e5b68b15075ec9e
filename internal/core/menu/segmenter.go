package menu

import (
	"regexp"
	"strings"
	"unicode"

	"menu-recommender/internal/core/flavor"
	"menu-recommender/internal/infrastructure/config"
)

// Item 切分出的一道菜：菜名加上它所屬的分類
type Item struct {
	Name     string          `json:"name"`
	Category flavor.Category `json:"category"`
}

// Segmenter 菜單文字切分器
// 純文字處理、無跨呼叫狀態，永遠不回傳錯誤：看不懂的行退化成主菜而不是失敗
type Segmenter struct {
	headers        map[flavor.Category][]string
	maxPerCategory int
}

var (
	// 行首的項目符號或編號（- * • 1. 2) …）
	leadingMarkerPattern = regexp.MustCompile(`^\s*(?:[-*•·‣]+|\d+[.)])\s*`)

	// 行尾的價格：貨幣符號加數字，或 - 12.50 這類尾綴
	trailingPricePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s*[-–]?\s*[$€£₹]\s*\d+(?:[.,]\d+)?\s*$`),
		regexp.MustCompile(`\s*[-–]\s*\d+(?:[.,]\d+)?\s*$`),
		regexp.MustCompile(`\s*[(\[][^)\]]*\d+(?:[.,]\d+)?[^)\]]*[)\]]\s*$`),
		regexp.MustCompile(`(?i)\s+\d+(?:[.,]\d+)?\s*(?:usd|eur|gbp|rs|rupees?|each|per)\s*$`),
		// 帶小數點的裸數字視為價格；整數不砍，避免吃掉菜名裡的數字
		regexp.MustCompile(`\s+\d+[.,]\d{1,2}\s*$`),
	}

	// 只有價格或數字的行
	priceOnlyPattern = regexp.MustCompile(`^\s*[$€£₹]?\s*\d+(?:[.,]\d+)?\s*$`)

	// header 正規化時去掉的符號
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}\s']`)

	whitespacePattern = regexp.MustCompile(`\s+`)

	letterPattern = regexp.MustCompile(`\p{L}`)
)

// New 建立菜單切分器
func New(cfg config.SegmenterConfig) *Segmenter {
	maxPerCategory := cfg.MaxPerCategory
	if maxPerCategory <= 0 {
		maxPerCategory = 20
	}
	return &Segmenter{
		headers: map[flavor.Category][]string{
			flavor.CategoryAppetizer: normalizeAll(cfg.AppetizerHeaders),
			flavor.CategoryMains:     normalizeAll(cfg.MainsHeaders),
			flavor.CategoryDesserts:  normalizeAll(cfg.DessertHeaders),
		},
		maxPerCategory: maxPerCategory,
	}
}

// Segment 將菜單文字切分為依序排列的（菜名, 分類）
// 遇到分類標題前的行一律歸到預設分類 mains
func (s *Segmenter) Segment(text string) []Item {
	current := flavor.CategoryMains
	var items []Item

	// 每個分類各自去重並設上限
	seen := map[flavor.Category]map[string]struct{}{}
	counts := map[flavor.Category]int{}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		if category, ok := s.matchHeader(line); ok {
			current = category
			continue
		}

		name := cleanDishLine(line)
		if name == "" {
			continue
		}

		key := strings.ToLower(name)
		if seen[current] == nil {
			seen[current] = make(map[string]struct{})
		}
		if _, dup := seen[current][key]; dup {
			continue
		}
		if counts[current] >= s.maxPerCategory {
			continue
		}

		seen[current][key] = struct{}{}
		counts[current]++
		items = append(items, Item{Name: name, Category: current})
	}

	return items
}

// matchHeader 判斷一行是否為分類標題
// 正規化後等於或包含任一同義詞即視為標題
func (s *Segmenter) matchHeader(line string) (flavor.Category, bool) {
	normalized := normalizeHeader(line)
	if normalized == "" {
		return "", false
	}

	for _, category := range flavor.Categories() {
		for _, synonym := range s.headers[category] {
			if normalized == synonym || strings.Contains(normalized, synonym) {
				return category, true
			}
		}
	}
	return "", false
}

// cleanDishLine 清掉項目符號、編號與行尾價格，回傳正規化後的菜名
func cleanDishLine(line string) string {
	if priceOnlyPattern.MatchString(line) {
		return ""
	}

	cleaned := leadingMarkerPattern.ReplaceAllString(line, "")
	for _, p := range trailingPricePatterns {
		cleaned = p.ReplaceAllString(cleaned, "")
	}
	cleaned = strings.TrimSpace(cleaned)

	// 清完之後必須還有字母，純數字或符號的殘渣不算菜名
	if len(cleaned) < 2 || !letterPattern.MatchString(cleaned) {
		return ""
	}
	if priceOnlyPattern.MatchString(cleaned) {
		return ""
	}

	return NormalizeDishName(cleaned)
}

// 標題正規化：小寫、去標點、壓縮空白
func normalizeHeader(s string) string {
	lowered := strings.ToLower(s)
	stripped := punctuationPattern.ReplaceAllString(lowered, " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(stripped, " "))
}

func normalizeAll(synonyms []string) []string {
	out := make([]string, 0, len(synonyms))
	for _, s := range synonyms {
		if n := normalizeHeader(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// 首字母以外保持小寫的詞
var lowercaseWords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "a": {}, "an": {}, "of": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "with": {},
	"by": {}, "from": {},
}

// NormalizeDishName 菜名正規化：壓縮空白並轉為標題式大小寫
func NormalizeDishName(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return ""
	}

	for i, word := range words {
		lower := strings.ToLower(word)
		if i > 0 {
			if _, keep := lowercaseWords[lower]; keep {
				words[i] = lower
				continue
			}
		}
		words[i] = capitalize(lower)
	}

	return strings.Join(words, " ")
}

func capitalize(word string) string {
	r := []rune(word)
	if len(r) == 0 {
		return word
	}
	return string(unicode.ToUpper(r[0])) + string(r[1:])
}
