package menu

import (
	"net/http"

	"menu-recommender/internal/core/extract"
	"menu-recommender/internal/core/flavor"
	menuCore "menu-recommender/internal/core/menu"
	"menu-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProcessTextRequest 菜單文字處理請求
type ProcessTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// ProcessImageRequest 菜單圖片處理請求
// image 接受 URL、裸 base64 或 data URI
type ProcessImageRequest struct {
	Image string `json:"image" binding:"required"`
}

// ProcessResponse 菜單處理回應
// dishes 是攤平後依序排列的菜名，categorized 保留分類分組
type ProcessResponse struct {
	ExtractedText string              `json:"extracted_text,omitempty"`
	Dishes        []string            `json:"dishes"`
	Categorized   map[string][]string `json:"categorized"`
}

// Handler 菜單處理程序
type Handler struct {
	segmenter   *menuCore.Segmenter
	menuExtract *extract.MenuService
}

// NewHandler 創建菜單處理程序
func NewHandler(segmenter *menuCore.Segmenter, menuExtract *extract.MenuService) *Handler {
	return &Handler{
		segmenter:   segmenter,
		menuExtract: menuExtract,
	}
}

// HandleProcessText 將菜單文字切分為分類後的菜名
func (h *Handler) HandleProcessText(c *gin.Context) {
	var req ProcessTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Invalid request format",
		})
		return
	}

	items := h.segmenter.Segment(req.Text)
	c.JSON(http.StatusOK, buildResponse("", items))
}

// HandleProcessImage 從菜單圖片擷取菜名後切分
// 圖片只交給外部視覺模型，這裡拿到的是擷取後的文字
func (h *Handler) HandleProcessImage(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}

	var req ProcessImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Invalid request format",
		})
		return
	}

	common.LogInfo("開始處理菜單圖片",
		zap.String("request_id", requestID),
	)

	extractedText, err := h.menuExtract.ExtractDishNames(c.Request.Context(), req.Image)
	if err != nil {
		common.LogError("菜單圖片擷取失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusServiceUnavailable, common.ErrorResponse{
			Code:    "AI_SERVICE_ERROR",
			Message: "Failed to extract dish names from menu image",
		})
		return
	}

	items := h.segmenter.Segment(extractedText)
	c.JSON(http.StatusOK, buildResponse(extractedText, items))
}

// buildResponse 組裝攤平列表與分類分組
func buildResponse(extractedText string, items []menuCore.Item) ProcessResponse {
	categorized := make(map[string][]string, 3)
	for _, category := range flavor.Categories() {
		categorized[category.String()] = []string{}
	}

	dishes := make([]string, 0, len(items))
	for _, item := range items {
		dishes = append(dishes, item.Name)
		key := item.Category.String()
		categorized[key] = append(categorized[key], item.Name)
	}

	return ProcessResponse{
		ExtractedText: extractedText,
		Dishes:        dishes,
		Categorized:   categorized,
	}
}
