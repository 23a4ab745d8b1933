package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/router/internal/metrics"
	"infinite-experiment/router/internal/models"
	"infinite-experiment/router/internal/routing"
)

func TestServer_Redirect(t *testing.T) {
	routes := routing.New()
	routes.Set("example.com", models.RouteInfo{To: "other.local:9000", Type: models.RouteTypeRedirect})
	srv := NewServer(routes, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/path/x?q=1", nil)
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "http://other.local:9000/path/x?q=1", rr.Header().Get("Location"))
}

func TestServer_Proxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Upstream", "yes")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(r.Method + " " + r.URL.Path + " " + string(body)))
	}))
	defer upstream.Close()

	u, err := url.Parse(upstream.URL)
	require.NoError(t, err)

	routes := routing.New()
	routes.Set("example.com", models.RouteInfo{To: u.Host, Type: models.RouteTypeProxy})
	m := metrics.NewMetricsRegistry()
	srv := NewServer(routes, nil, m)

	req := httptest.NewRequest(http.MethodPost, "http://example.com/echo", strings.NewReader("hello"))
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "yes", rr.Header().Get("X-Upstream"))
	assert.Equal(t, "POST /echo hello", rr.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RoutedRequestsTotal.WithLabelValues("proxy", "ok")))
}

func TestServer_ProxyUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(upstream.URL, "http://")
	upstream.Close()

	routes := routing.New()
	routes.Set("example.com", models.RouteInfo{To: addr, Type: models.RouteTypeProxy})
	m := metrics.NewMetricsRegistry()
	srv := NewServer(routes, nil, m)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://example.com/", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RoutedRequestsTotal.WithLabelValues("proxy", "upstream_error")))
}

func TestServer_MatchesRemoteAddress(t *testing.T) {
	routes := routing.New()
	routes.Set("localhost", models.RouteInfo{To: "dest", Type: models.RouteTypeRedirect})
	srv := NewServer(routes, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "http://unrouted.example/", nil)
	req.RemoteAddr = "127.0.0.1:51000"
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "http://dest/", rr.Header().Get("Location"))
}

func TestServer_NoRoute(t *testing.T) {
	srv := NewServer(routing.New(), nil, nil)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://example.com/", nil))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestServer_UnknownType(t *testing.T) {
	routes := routing.New()
	routes.Set("example.com", models.RouteInfo{To: "x", Type: "teleport"})
	srv := NewServer(routes, nil, nil)

	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://example.com/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestServer_UnparsableHostFallsBackToRemoteAddress(t *testing.T) {
	routes := routing.New()
	routes.Set("localhost", models.RouteInfo{To: "dest", Type: models.RouteTypeRedirect})
	srv := NewServer(routes, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	req.Host = "bad%zz"
	req.RemoteAddr = "127.0.0.1:51000"
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTemporaryRedirect, rr.Code)
	assert.Equal(t, "http://dest/", rr.Header().Get("Location"))
}

func TestServer_NoParsableAddress(t *testing.T) {
	srv := NewServer(routing.New(), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	req.Host = "bad%zz"
	req.RemoteAddr = "also%zz"
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
