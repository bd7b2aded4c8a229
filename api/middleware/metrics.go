package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/medsup-innovation/medsup-backend/pkg/metrics"
)

// Metrics records request counts and latency against the matched chi route
// pattern so path parameters do not explode label cardinality.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m.IncInFlight()
			defer m.DecInFlight()

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			route := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			m.ObserveRequest(r.Method, route, rec.status, time.Since(start))
		})
	}
}
