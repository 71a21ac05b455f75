package middleware

import (
	"net/http"
	"strconv"

	"chefly/pkg/metrics"
)

// HTTPMetrics records request counts and latency per method/path/status.
// Paths recorded are the raw URL paths; cardinality stays low because the
// API surface is small and ids sit in the body for mutating calls.
func HTTPMetrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timer := metrics.NewRequestTimer()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     200,
			}

			next.ServeHTTP(wrapped, r)

			status := strconv.Itoa(wrapped.statusCode)
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(timer.Seconds())
		})
	}
}
