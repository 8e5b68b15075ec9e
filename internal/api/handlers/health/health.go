package health

import (
	"net/http"
	"runtime"
	"time"

	"menu-recommender/internal/core/ai/cache"
	"menu-recommender/internal/core/catalog"
	"menu-recommender/internal/infrastructure/config"
	"menu-recommender/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Catalog   CatalogStatus          `json:"catalog"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// CatalogStatus 食譜資料集狀態
type CatalogStatus struct {
	Recipes int `json:"recipes"`
}

// Handler 健康檢查處理程序
type Handler struct {
	config       *config.Config
	catalog      *catalog.Catalog
	cacheManager *cache.CacheManager
}

// NewHandler 創建健康檢查處理程序
func NewHandler(cfg *config.Config, cat *catalog.Catalog, cacheManager *cache.CacheManager) *Handler {
	return &Handler{
		config:       cfg,
		catalog:      cat,
		cacheManager: cacheManager,
	}
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Catalog: CatalogStatus{
			Recipes: h.catalog.Size(),
		},
	}

	if h.cacheManager != nil {
		response.Cache = h.cacheManager.GetStats()
	}

	common.LogInfo("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器
// 資料集為空代表啟動載入失敗或尚未完成，不應接收流量
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if h.catalog == nil || h.catalog.Size() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "catalog empty",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
