package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"menu-recommender/internal/core/ai/service"
	"menu-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// MenuService 菜單圖片擷取服務
// 把圖片交給視覺模型，只取回菜名清單；核心永遠不看圖片位元組
type MenuService struct {
	aiService *service.Service
}

// NewMenuService 創建菜單擷取服務
func NewMenuService(aiService *service.Service) *MenuService {
	return &MenuService{
		aiService: aiService,
	}
}

// 擷取提示詞：要求模型只回菜名、固定 JSON 格式
const extractionPrompt = `You are a menu extraction expert. Extract ONLY the dish/item names from this menu image.
Rules:
1. Extract ONLY the dish/item names - nothing else
2. DO NOT include prices, descriptions, allergen symbols, section headers, restaurant name, hours or footer text
3. DO include complete dish names exactly as they appear, including multi-word names
Return a JSON object with this exact format:
{"dishes": ["Dish Name 1", "Dish Name 2"]}
Return ONLY valid JSON, no other text or explanation.`

// dishListResponse 模型回應格式
type dishListResponse struct {
	Dishes []string `json:"dishes"`
}

var (
	jsonObjectPattern   = regexp.MustCompile(`(?s)\{.*"dishes".*\}`)
	leadingDigitPattern = regexp.MustCompile(`^\d`)
)

// ExtractDishNames 從菜單圖片擷取菜名，回傳以換行分隔的文字
// 後續交給菜單切分器，和純文字菜單走同一條路
func (s *MenuService) ExtractDishNames(ctx context.Context, imageData string) (string, error) {
	resp, err := s.aiService.ProcessRequest(ctx, extractionPrompt, imageData)
	if err != nil {
		return "", fmt.Errorf("menu extraction failed: %w", err)
	}

	names := parseDishNames(resp.Content)
	if len(names) == 0 {
		common.LogWarn("菜單圖片擷取不到任何菜名",
			zap.Int("response_length", len(resp.Content)),
		)
		return "", fmt.Errorf("no dish names found in menu image")
	}

	common.LogInfo("菜單圖片擷取完成",
		zap.Int("dish_count", len(names)),
	)
	return strings.Join(names, "\n"), nil
}

// parseDishNames 解析模型輸出：先走 JSON，不行再退回逐行掃描
func parseDishNames(content string) []string {
	content = strings.TrimSpace(content)

	// 模型偶爾會在 JSON 前後多話，先撈出 JSON 區塊
	candidate := content
	if m := jsonObjectPattern.FindString(content); m != "" {
		candidate = m
	}

	var parsed dishListResponse
	if err := common.ParseJSON(common.QuoteJSONKeys(candidate), &parsed); err == nil {
		return cleanNames(parsed.Dishes)
	}

	// 純 JSON 陣列的情況
	var plain []string
	if err := common.ParseJSON(candidate, &plain); err == nil {
		return cleanNames(plain)
	}

	// 最後手段：逐行收集，丟掉明顯不是菜名的行
	var names []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), `",`))
		if line == "" || len(line) < 3 || len(line) > 80 {
			continue
		}
		lower := strings.ToLower(line)
		if strings.ContainsAny(line, "{}[]") || strings.Contains(lower, "dishes") {
			continue
		}
		if strings.Contains(line, "$") || leadingDigitPattern.MatchString(line) {
			continue
		}
		names = append(names, line)
	}
	return cleanNames(names)
}

// cleanNames 去掉空字串與前後空白
func cleanNames(raw []string) []string {
	names := make([]string, 0, len(raw))
	for _, n := range raw {
		if trimmed := strings.TrimSpace(n); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}
