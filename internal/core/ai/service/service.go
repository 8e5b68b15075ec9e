package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"menu-recommender/internal/core/ai/cache"
	"menu-recommender/internal/core/image"
	openrouter "menu-recommender/internal/core/service"
	"menu-recommender/internal/infrastructure/config"
	"menu-recommender/internal/pkg/common"
)

// Response AI 回應結構
type Response struct {
	Content string
}

// Service AI 服務：快取 → 圖片正規化 → OpenRouter
type Service struct {
	config       *config.Config
	openRouter   *openrouter.OpenRouterService
	cacheManager *cache.CacheManager
	imageSvc     *image.Service
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, cacheManager *cache.CacheManager) (*Service, error) {
	openRouter := openrouter.NewOpenRouterService(cfg)
	imageSvc := image.NewService(cfg.Image.MaxSizeBytes, cfg.Image.MaxDimension)

	return &Service{
		config:       cfg,
		openRouter:   openRouter,
		cacheManager: cacheManager,
		imageSvc:     imageSvc,
	}, nil
}

// ProcessRequest 統一對外方法
func (s *Service) ProcessRequest(ctx context.Context, prompt string, imageData string) (*Response, error) {
	if !s.config.OpenRouter.Enabled {
		return nil, common.ErrAIServiceError
	}

	// 統一 prompt 格式，確保快取 key 一致
	prompt = strings.Join(strings.Fields(strings.TrimSpace(prompt)), " ")

	var processedImageData string
	if imageData != "" {
		var err error
		processedImageData, err = s.imageSvc.ProcessImage(imageData)
		if err != nil {
			return nil, fmt.Errorf("failed to process image: %w", err)
		}
	}

	// 檢查緩存
	if s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, prompt, processedImageData); err == nil && val != "" {
			return &Response{Content: val}, nil
		}
	}

	start := time.Now()
	content, err := s.openRouter.GenerateResponse(ctx, prompt, processedImageData)
	common.LogAICall(prompt, time.Since(start), err, "")
	if err != nil {
		return nil, err
	}

	response := &Response{Content: content}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, prompt, processedImageData, content)
	}

	return response, nil
}
