package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"infinite-experiment/router/internal/logging"
	"infinite-experiment/router/internal/metrics"
	"infinite-experiment/router/internal/models"
	"infinite-experiment/router/internal/routing"
)

// Server forwards traffic according to the routing cache.
type Server struct {
	routes    *routing.Cache
	transport http.RoundTripper
	metrics   *metrics.MetricsRegistry
}

// NewServer builds a routing server. A nil transport uses http.DefaultTransport.
func NewServer(routes *routing.Cache, transport http.RoundTripper, m *metrics.MetricsRegistry) *Server {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Server{routes: routes, transport: transport, metrics: m}
}

// NewTransport returns a transport bounded by timeout waiting for upstream headers.
func NewTransport(timeout time.Duration) http.RoundTripper {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.ResponseHeaderTimeout = timeout
	return t
}

func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.applyRoute)
}

// lookup tries the aliases of the addressed host, then those of the caller.
// An address that does not parse is skipped; the error is returned only when
// no address could be parsed at all.
func (s *Server) lookup(r *http.Request, scheme string) (string, models.RouteInfo, bool, error) {
	var parseErr error
	parsed := false

	for _, address := range []string{r.Host, r.RemoteAddr} {
		if address == "" {
			continue
		}

		origins, err := addressAliases(fmt.Sprintf("%s://%s", scheme, address))
		if err != nil {
			logging.Debug("Skipping unparsable address", "address", address, "error", err.Error())
			parseErr = err
			continue
		}
		parsed = true

		for _, origin := range origins {
			if info, ok := s.routes.Get(origin); ok {
				return origin, info, true, nil
			}
		}
	}

	if !parsed && parseErr != nil {
		return "", models.RouteInfo{}, false, parseErr
	}
	return "", models.RouteInfo{}, false, nil
}

func (s *Server) applyRoute(rw http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	origin, info, ok, err := s.lookup(r, scheme)
	if err != nil {
		logging.Error("Error parsing request address", "host", r.Host, "remote_addr", r.RemoteAddr, "error", err.Error())
		s.count("unknown", "bad_address")
		http.Error(rw, "", http.StatusInternalServerError)
		return
	}
	if !ok {
		logging.Warn("No route configured", "host", r.Host, "remote_addr", r.RemoteAddr)
		s.count("none", "unrouted")
		rw.WriteHeader(http.StatusBadGateway)
		return
	}

	target := &url.URL{
		Scheme:   scheme,
		Host:     info.To,
		Path:     r.URL.Path,
		RawPath:  r.URL.RawPath,
		RawQuery: r.URL.RawQuery,
	}

	switch info.Type {
	case models.RouteTypeRedirect:
		s.count(string(info.Type), "ok")
		http.Redirect(rw, r, target.String(), http.StatusTemporaryRedirect)
	case models.RouteTypeProxy:
		s.proxy(rw, r, origin, target)
	default:
		logging.Error("Unknown route type", "from", origin, "type", string(info.Type))
		s.count(string(info.Type), "unknown_type")
		http.Error(rw, "", http.StatusInternalServerError)
	}
}

func (s *Server) proxy(rw http.ResponseWriter, r *http.Request, origin string, target *url.URL) {
	start := time.Now()
	failed := false

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Scheme = target.Scheme
			pr.Out.URL.Host = target.Host
			pr.Out.Host = target.Host
			pr.SetXForwarded()
		},
		Transport: s.transport,
		ErrorHandler: func(w http.ResponseWriter, _ *http.Request, err error) {
			failed = true
			logging.Error("Error getting upstream content", "from", origin, "target", target.String(), "error", err.Error())
			status := http.StatusBadGateway
			if errors.Is(err, context.DeadlineExceeded) {
				status = http.StatusGatewayTimeout
			}
			w.WriteHeader(status)
		},
	}

	rp.ServeHTTP(rw, r)

	if s.metrics != nil {
		s.metrics.ProxyDuration.Observe(time.Since(start).Seconds())
	}
	if failed {
		s.count(string(models.RouteTypeProxy), "upstream_error")
		return
	}
	s.count(string(models.RouteTypeProxy), "ok")
}

func (s *Server) count(routeType, result string) {
	if s.metrics != nil {
		s.metrics.RoutedRequestsTotal.WithLabelValues(routeType, result).Inc()
	}
}
