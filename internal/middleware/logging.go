package middleware

import (
	"net/http"
	"time"

	"infinite-experiment/router/internal/logging"
)

// Logging writes one structured line per request once it has been served.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(lw, r)
		dur := time.Since(start)

		fields := []interface{}{
			"method", r.Method,
			"endpoint", routePattern(r),
			"path", r.URL.Path,
			"status_code", lw.statusCode,
			"duration_ms", dur.Milliseconds(),
		}
		log := logging.WithRequest(RequestID(r.Context()), r.RemoteAddr, r.URL.Path)

		switch {
		case lw.statusCode >= http.StatusInternalServerError:
			log.Errorw("HTTP request completed", fields...)
		case lw.statusCode >= http.StatusBadRequest:
			log.Warnw("HTTP request completed", fields...)
		default:
			log.Infow("HTTP request completed", fields...)
		}
	})
}
