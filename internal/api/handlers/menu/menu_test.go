package menu

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"menu-recommender/internal/core/ai/service"
	"menu-recommender/internal/core/extract"
	menuCore "menu-recommender/internal/core/menu"
	"menu-recommender/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	segmenter := menuCore.New(config.SegmenterConfig{
		MaxPerCategory:   20,
		AppetizerHeaders: []string{"appetizers", "starters"},
		MainsHeaders:     []string{"mains", "main course"},
		DessertHeaders:   []string{"desserts", "sweets"},
	})

	// OpenRouter 關閉：圖片端點應回 503，不打外部服務
	cfg := &config.Config{
		OpenRouter: config.OpenRouterConfig{Enabled: false, Timeout: time.Second},
		Image:      config.ImageConfig{MaxSizeBytes: 1 << 20, MaxDimension: 1200},
	}
	aiService, err := service.NewService(cfg, nil)
	require.NoError(t, err)

	handler := NewHandler(segmenter, extract.NewMenuService(aiService))

	router := gin.New()
	router.POST("/api/v1/menu/text", handler.HandleProcessText)
	router.POST("/api/v1/menu/image", handler.HandleProcessImage)
	return router
}

func post(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleProcessText(t *testing.T) {
	router := testRouter(t)

	body, err := json.Marshal(ProcessTextRequest{
		Text: "Starters\nCaesar Salad\nMains\nGrilled Salmon $24\nDesserts\n- Chocolate Cake 8.50",
	})
	require.NoError(t, err)

	w := post(t, router, "/api/v1/menu/text", string(body))
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProcessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, []string{"Caesar Salad", "Grilled Salmon", "Chocolate Cake"}, resp.Dishes)
	assert.Equal(t, []string{"Caesar Salad"}, resp.Categorized["appetizer"])
	assert.Equal(t, []string{"Grilled Salmon"}, resp.Categorized["mains"])
	assert.Equal(t, []string{"Chocolate Cake"}, resp.Categorized["desserts"])
}

func TestHandleProcessTextNoHeaders(t *testing.T) {
	router := testRouter(t)

	w := post(t, router, "/api/v1/menu/text", `{"text": "Chicken Curry\nBeef Stew"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProcessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// 沒有標題的菜單全部落在預設分類
	assert.Equal(t, []string{"Chicken Curry", "Beef Stew"}, resp.Categorized["mains"])
	assert.Empty(t, resp.Categorized["appetizer"])
	assert.Empty(t, resp.Categorized["desserts"])
}

func TestHandleProcessTextInvalidBody(t *testing.T) {
	router := testRouter(t)

	assert.Equal(t, http.StatusBadRequest, post(t, router, "/api/v1/menu/text", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(t, router, "/api/v1/menu/text", `not json`).Code)
}

func TestHandleProcessImageServiceDisabled(t *testing.T) {
	router := testRouter(t)

	w := post(t, router, "/api/v1/menu/image", `{"image": "aGVsbG8="}`)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AI_SERVICE_ERROR", resp["code"])
}

func TestHandleProcessImageInvalidBody(t *testing.T) {
	router := testRouter(t)

	assert.Equal(t, http.StatusBadRequest, post(t, router, "/api/v1/menu/image", `{}`).Code)
}
