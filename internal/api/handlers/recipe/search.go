package recipe

import (
	"net/http"
	"strconv"

	"menu-recommender/internal/core/catalog"
	"menu-recommender/internal/core/flavor"
	"menu-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

const defaultSearchLimit = 10

// SearchResult 搜尋結果中的一筆食譜
type SearchResult struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Category    flavor.Category `json:"category"`
	Ingredients []string        `json:"ingredients"`
	Flavor      flavor.Vector   `json:"flavor_profile"`
}

// SearchResponse 搜尋回應
type SearchResponse struct {
	Recipes []SearchResult `json:"recipes"`
}

// Handler 食譜搜尋處理程序
type Handler struct {
	catalog *catalog.Catalog
}

// NewHandler 創建食譜搜尋處理程序
func NewHandler(cat *catalog.Catalog) *Handler {
	return &Handler{catalog: cat}
}

// HandleSearch 依名稱搜尋食譜（打字即搜）
func (h *Handler) HandleSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Code:    common.ErrCodeInvalidRequest,
			Message: "Query parameter q is required",
		})
		return
	}

	limit := defaultSearchLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Code:    common.ErrCodeInvalidRequest,
				Message: "Invalid limit",
			})
			return
		}
		limit = parsed
	}

	matches := h.catalog.Search(query, limit)

	results := make([]SearchResult, 0, len(matches))
	for _, r := range matches {
		results = append(results, SearchResult{
			ID:          r.ID,
			Name:        r.Name,
			Category:    r.Category,
			Ingredients: r.Ingredients,
			Flavor:      r.Flavor,
		})
	}

	c.JSON(http.StatusOK, SearchResponse{Recipes: results})
}
