package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	healthHandler "menu-recommender/internal/api/handlers/health"
	menuHandler "menu-recommender/internal/api/handlers/menu"
	profileHandler "menu-recommender/internal/api/handlers/profile"
	recipeHandler "menu-recommender/internal/api/handlers/recipe"
	recommendHandler "menu-recommender/internal/api/handlers/recommend"
	"menu-recommender/internal/api/middleware"
	"menu-recommender/internal/core/ai/cache"
	"menu-recommender/internal/core/ai/service"
	"menu-recommender/internal/core/catalog"
	"menu-recommender/internal/core/extract"
	menuCore "menu-recommender/internal/core/menu"
	"menu-recommender/internal/core/resolver"
	"menu-recommender/internal/infrastructure/config"
	"menu-recommender/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (10MB)
	maxBodySize = 10 << 20
)

// SetupRouter 設置路由
// 所有服務都在這裡建構並以參數注入 handler，不透過 gin context 傳遞
func SetupRouter(cfg *config.Config, cat *catalog.Catalog, cacheManager *cache.CacheManager) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 速率限制
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Int("queue_workers", cfg.Queue.Workers),
		zap.Int("catalog_recipes", cat.Size()),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化核心服務
	dishResolver := resolver.New(cat, cfg.Resolver)
	resolverPool := resolver.NewPool(dishResolver, cfg.Queue)
	segmenter := menuCore.New(cfg.Segmenter)

	// 初始化 AI 服務（菜單圖片擷取用）
	aiService, err := service.NewService(cfg, cacheManager)
	if err != nil || aiService == nil {
		common.LogError("Failed to initialize AI service", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize AI service: %w", err)
	}
	menuExtract := extract.NewMenuService(aiService)

	// 全局中間件：設置請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	healthInstance := healthHandler.NewHandler(cfg, cat, cacheManager)
	router.GET("/health", healthInstance.HealthCheck)
	router.GET("/ready", healthInstance.ReadinessCheck)
	router.GET("/live", healthInstance.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		profileInstance := profileHandler.NewHandler(resolverPool)
		recipeInstance := recipeHandler.NewHandler(cat)
		menuInstance := menuHandler.NewHandler(segmenter, menuExtract)
		recommendInstance := recommendHandler.NewHandler(resolverPool)

		// 風味輪廓
		api.POST("/profile", profileInstance.HandleCreateProfile)

		// 食譜搜尋（打字即搜）
		api.GET("/recipes/search", recipeInstance.HandleSearch)

		// 菜單處理
		menuGroup := api.Group("/menu")
		{
			menuGroup.POST("/text", menuInstance.HandleProcessText)

			// 圖片走外部模型，額外做去重避免重複擷取
			menuGroup.POST("/image", middleware.Deduplication(cfg), menuInstance.HandleProcessImage)
		}

		// 推薦
		api.POST("/recommendations", recommendInstance.HandleRecommend)
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Bool("ai_service_initialized", aiService != nil),
		zap.Bool("cache_manager_initialized", cacheManager != nil),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
