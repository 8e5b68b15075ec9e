package recommend

import (
	"errors"
	"math"
	"net/http"

	"menu-recommender/internal/core/flavor"
	"menu-recommender/internal/core/ranker"
	"menu-recommender/internal/core/resolver"
	"menu-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MenuDishInput 菜單上的一道菜
type MenuDishInput struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// RecommendRequest 推薦請求
// user_profile 的 key 是分類名稱，沒有偏好的分類可以省略
type RecommendRequest struct {
	UserProfile map[string]flavor.Vector `json:"user_profile" binding:"required"`
	MenuDishes  []MenuDishInput          `json:"menu_dishes" binding:"required"`
}

// RecommendedDish 推薦結果中的一道菜
// name 使用菜單上的原始菜名而非食譜名，前端才能對回菜單
type RecommendedDish struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Category        flavor.Category `json:"category"`
	Ingredients     []string        `json:"ingredients"`
	Flavor          flavor.Vector   `json:"flavor_profile"`
	SimilarityScore float64         `json:"similarity_score"`
}

// RecommendResponse 推薦回應
type RecommendResponse struct {
	Recommendations map[string][]RecommendedDish `json:"recommendations"`
	Unresolved      []string                     `json:"unresolved"`
}

// Handler 推薦處理程序
type Handler struct {
	pool *resolver.Pool
}

// NewHandler 創建推薦處理程序
func NewHandler(pool *resolver.Pool) *Handler {
	return &Handler{pool: pool}
}

// HandleRecommend 依使用者風味輪廓替菜單菜色排序
func (h *Handler) HandleRecommend(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Invalid request format",
		})
		return
	}

	userProfile, err := parseProfile(req.UserProfile)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: err.Error(),
		})
		return
	}

	refs, badCategory := parseMenuDishes(req.MenuDishes)
	if badCategory != "" {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Unknown category: " + badCategory,
		})
		return
	}

	common.LogInfo("開始產生推薦",
		zap.Int("dish_count", len(refs)),
		zap.Int("profile_categories", len(userProfile)),
		zap.String("request_id", requestID),
	)

	resolved := h.pool.ResolveAll(c.Request.Context(), refs)

	var unresolved []string
	matchedCount := 0
	for _, dish := range resolved {
		if dish.Matched() {
			matchedCount++
			continue
		}
		unresolved = append(unresolved, dish.Ref.Name)
		common.LogUnresolvedDish(dish.Ref.Name, dish.Ref.Category.String(), requestID)
	}
	if matchedCount == 0 {
		customErr := common.ErrEmptyInput
		c.JSON(customErr.Status, common.ErrorResponse{
			Code:    customErr.Code,
			Message: customErr.Message,
		})
		return
	}

	ranked := ranker.Rank(resolved, userProfile)

	// 使用者輪廓涵蓋的分類一律出現在回應中，即使沒有可推薦的菜
	recommendations := make(map[string][]RecommendedDish, len(userProfile))
	for category := range userProfile {
		recommendations[category.String()] = []RecommendedDish{}
	}
	for category, recs := range ranked {
		dishes := make([]RecommendedDish, 0, len(recs))
		for _, rec := range recs {
			dishes = append(dishes, RecommendedDish{
				ID:              rec.Recipe.ID,
				Name:            rec.DishName,
				Category:        rec.Category,
				Ingredients:     rec.Recipe.Ingredients,
				Flavor:          rec.Recipe.Flavor,
				SimilarityScore: roundScore(rec.Score),
			})
		}
		recommendations[category.String()] = dishes
	}

	common.LogInfo("推薦產生完成",
		zap.Int("matched", matchedCount),
		zap.Int("unresolved", len(unresolved)),
		zap.String("request_id", requestID),
	)

	c.JSON(http.StatusOK, RecommendResponse{
		Recommendations: recommendations,
		Unresolved:      unresolved,
	})
}

// parseProfile 驗證並轉換使用者風味輪廓
func parseProfile(raw map[string]flavor.Vector) (flavor.Profile, error) {
	if len(raw) == 0 {
		return nil, errors.New("user_profile must contain at least one category")
	}

	userProfile := make(flavor.Profile, len(raw))
	for key, vector := range raw {
		category, err := flavor.ParseCategory(key)
		if err != nil {
			return nil, errors.New("Unknown category: " + key)
		}
		if err := vector.Validate(); err != nil {
			return nil, errors.New("invalid flavor vector for " + key + ": " + err.Error())
		}
		userProfile[category] = vector
	}
	return userProfile, nil
}

// parseMenuDishes 解析菜單菜色，回傳第一個無效的分類字串
func parseMenuDishes(dishes []MenuDishInput) ([]resolver.DishRef, string) {
	refs := make([]resolver.DishRef, 0, len(dishes))
	for _, d := range dishes {
		category, err := flavor.ParseCategory(d.Category)
		if err != nil {
			return nil, d.Category
		}
		refs = append(refs, resolver.DishRef{Name: d.Name, Category: category})
	}
	return refs, ""
}

// roundScore 分數固定輸出到小數點後三位
func roundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}
