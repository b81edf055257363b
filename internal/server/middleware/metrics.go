package middleware

import (
	"net/http"
	"time"

	"github.com/iudanet/gophtodo/internal/server/metrics"
)

// MetricsMiddleware считает запросы и латентность по шаблону маршрута
func MetricsMiddleware(recorder metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			recorder.RecordRequest(r.Method, routePattern(r), wrapped.statusCode, time.Since(start))
		})
	}
}
