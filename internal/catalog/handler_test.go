package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(nil).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestIndustriesEndpoint(t *testing.T) {
	resp := httptest.NewRecorder()
	newCatalogRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/industries", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Industries []struct {
			ID       string   `json:"id"`
			Keywords []string `json:"keywords"`
		} `json:"industries"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Industries, 8)
	assert.Equal(t, "consulting", body.Industries[0].ID)
}

func TestTemplateEndpointFallsBackToGeneric(t *testing.T) {
	resp := httptest.NewRecorder()
	newCatalogRouter().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/templates/astronautics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "generic", resp.Header().Get("X-Template-Fallback"))

	var tpl ResumeTemplate
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tpl))
	assert.Equal(t, "generic-standard", tpl.ID)
}
