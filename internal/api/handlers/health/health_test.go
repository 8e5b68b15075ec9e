package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"menu-recommender/internal/core/catalog"
	"menu-recommender/internal/core/flavor"
	"menu-recommender/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter(cat *catalog.Catalog) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App: config.AppConfig{Version: "1.0.0"},
	}
	handler := NewHandler(cfg, cat, nil)

	router := gin.New()
	router.GET("/health", handler.HealthCheck)
	router.GET("/ready", handler.ReadinessCheck)
	router.GET("/live", handler.LivenessCheck)
	return router
}

func loadedCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Recipe{
		{ID: 1, Name: "Caesar Salad", Category: flavor.CategoryAppetizer},
	})
}

func get(t *testing.T, router *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(loadedCatalog())

	w := get(t, router, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, 1, resp.Catalog.Recipes)
	assert.NotEmpty(t, resp.Runtime)
}

func TestReadinessCheck(t *testing.T) {
	router := testRouter(loadedCatalog())
	assert.Equal(t, http.StatusOK, get(t, router, "/ready").Code)
}

func TestReadinessCheckEmptyCatalog(t *testing.T) {
	router := testRouter(catalog.New(nil))
	assert.Equal(t, http.StatusServiceUnavailable, get(t, router, "/ready").Code)
}

func TestLivenessCheck(t *testing.T) {
	router := testRouter(loadedCatalog())
	assert.Equal(t, http.StatusOK, get(t, router, "/live").Code)
}
