package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/router/internal/models"
)

func TestParsePages(t *testing.T) {
	pages, err := ParsePages()
	require.NoError(t, err)
	assert.Contains(t, pages, "index.html")
	assert.Contains(t, pages, "404.html")
}

func TestRender_EmptyDashboard(t *testing.T) {
	pages, err := ParsePages()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	pages.Render(rec, http.StatusOK, "index.html", dashboardData{Title: "Routes", Types: models.RouteTypes()})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No routes configured")
	assert.Contains(t, rec.Body.String(), `id="btn-create-route"`)
}

func TestRender_UnknownPage(t *testing.T) {
	pages, err := ParsePages()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	pages.Render(rec, http.StatusOK, "missing.html", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestStaticFiles(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticFiles().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/js/index.js", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "btn-delete-route")
}
