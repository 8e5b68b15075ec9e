package profile

import (
	"errors"
	"net/http"

	"menu-recommender/internal/core/flavor"
	profileCore "menu-recommender/internal/core/profile"
	"menu-recommender/internal/core/resolver"
	"menu-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DishInput 使用者喜愛的一道菜
type DishInput struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
}

// CreateProfileRequest 建立風味輪廓的請求
type CreateProfileRequest struct {
	Dishes []DishInput `json:"dishes" binding:"required"`
}

// CreateProfileResponse 建立風味輪廓的回應
// unresolved 列出沒有比對到食譜而被略過的菜名，方便前端提示
type CreateProfileResponse struct {
	Profile    flavor.Profile `json:"profile"`
	Matched    []string       `json:"matched"`
	Unresolved []string       `json:"unresolved"`
}

// Handler 風味輪廓處理程序
type Handler struct {
	pool *resolver.Pool
}

// NewHandler 創建風味輪廓處理程序
func NewHandler(pool *resolver.Pool) *Handler {
	return &Handler{pool: pool}
}

// HandleCreateProfile 從喜愛菜色建立使用者風味輪廓
func (h *Handler) HandleCreateProfile(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req CreateProfileRequest
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

	refs, badCategory := parseDishRefs(req.Dishes)
	if badCategory != "" {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Unknown category: " + badCategory,
		})
		return
	}

	common.LogInfo("開始建立風味輪廓",
		zap.Int("dish_count", len(refs)),
		zap.String("request_id", requestID),
	)

	resolved := h.pool.ResolveAll(c.Request.Context(), refs)

	var matched, unresolved []string
	for _, dish := range resolved {
		if dish.Matched() {
			matched = append(matched, dish.Recipe.Name)
			continue
		}
		unresolved = append(unresolved, dish.Ref.Name)
		common.LogUnresolvedDish(dish.Ref.Name, dish.Ref.Category.String(), requestID)
	}

	userProfile, err := profileCore.Build(resolved)
	if err != nil {
		var customErr *common.CustomError
		if errors.As(err, &customErr) {
			c.JSON(customErr.Status, common.ErrorResponse{
				Code:    customErr.Code,
				Message: customErr.Message,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "Failed to build profile",
		})
		return
	}

	common.LogInfo("風味輪廓建立完成",
		zap.Int("matched", len(matched)),
		zap.Int("unresolved", len(unresolved)),
		zap.String("request_id", requestID),
	)

	c.JSON(http.StatusOK, CreateProfileResponse{
		Profile:    userProfile,
		Matched:    matched,
		Unresolved: unresolved,
	})
}

// parseDishRefs 解析請求中的菜色，回傳第一個無效的分類字串
func parseDishRefs(dishes []DishInput) ([]resolver.DishRef, string) {
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
