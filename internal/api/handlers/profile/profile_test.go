package profile

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"menu-recommender/internal/core/catalog"
	"menu-recommender/internal/core/flavor"
	"menu-recommender/internal/core/resolver"
	"menu-recommender/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	cat := catalog.New([]catalog.Recipe{
		{ID: 1, Name: "Caesar Salad", Category: flavor.CategoryAppetizer,
			Flavor: flavor.Vector{Spicy: 0.1, Sweet: 0.1, Umami: 0.6, Sour: 0.3, Salty: 0.4}},
		{ID: 2, Name: "Grilled Salmon", Category: flavor.CategoryMains,
			Flavor: flavor.Vector{Spicy: 0.2, Sweet: 0.1, Umami: 0.8, Sour: 0.1, Salty: 0.5}},
	})

	r := resolver.New(cat, config.ResolverConfig{MinTokenLen: 3, StopWords: []string{"the", "and"}})
	pool := resolver.NewPool(r, config.QueueConfig{Workers: 2, MaxSize: 100})

	router := gin.New()
	router.POST("/api/v1/profile", NewHandler(pool).HandleCreateProfile)
	return router
}

func postProfile(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/profile", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleCreateProfile(t *testing.T) {
	router := testRouter()

	w := postProfile(t, router, `{
		"dishes": [
			{"name": "Caesar Salad", "category": "appetizer"},
			{"name": "Grilled Salmon", "category": "mains"}
		]
	}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp CreateProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.ElementsMatch(t, []string{"Caesar Salad", "Grilled Salmon"}, resp.Matched)
	assert.Empty(t, resp.Unresolved)

	require.Contains(t, resp.Profile, flavor.CategoryAppetizer)
	require.Contains(t, resp.Profile, flavor.CategoryMains)
	assert.InDelta(t, 0.6, resp.Profile[flavor.CategoryAppetizer].Umami, 1e-9)
	assert.InDelta(t, 0.8, resp.Profile[flavor.CategoryMains].Umami, 1e-9)
}

func TestHandleCreateProfileUnresolvedSkipped(t *testing.T) {
	router := testRouter()

	w := postProfile(t, router, `{
		"dishes": [
			{"name": "Caesar Salad", "category": "appetizer"},
			{"name": "Quantum Soup", "category": "mains"}
		]
	}`)

	require.Equal(t, http.StatusOK, w.Code)

	var resp CreateProfileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, []string{"Caesar Salad"}, resp.Matched)
	assert.Equal(t, []string{"Quantum Soup"}, resp.Unresolved)
	assert.NotContains(t, resp.Profile, flavor.CategoryMains)
}

func TestHandleCreateProfileNothingResolves(t *testing.T) {
	router := testRouter()

	w := postProfile(t, router, `{
		"dishes": [{"name": "Quantum Soup", "category": "mains"}]
	}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "EMPTY_INPUT", resp["code"])
}

func TestHandleCreateProfileUnknownCategory(t *testing.T) {
	router := testRouter()

	w := postProfile(t, router, `{
		"dishes": [{"name": "Caesar Salad", "category": "snacks"}]
	}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["message"], "snacks")
}

func TestHandleCreateProfileInvalidBody(t *testing.T) {
	router := testRouter()

	assert.Equal(t, http.StatusBadRequest, postProfile(t, router, `not json`).Code)
	assert.Equal(t, http.StatusBadRequest, postProfile(t, router, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, postProfile(t, router, `{"dishes": [{"name": "x"}]}`).Code)
}
