package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request counts and latency per route.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status class.",
	}, []string{"method", "route", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	inFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Requests currently being served.",
	})
	reg.MustRegister(requests, duration, inFlight)
	return &HTTPMetrics{
		requests: requests,
		duration: duration,
		inFlight: inFlight,
	}
}

// ObserveRequest records a completed request.
func (h *HTTPMetrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if h == nil || h.requests == nil {
		return
	}
	h.requests.WithLabelValues(method, normalizeRoute(route), statusClass(status)).Inc()
	h.duration.WithLabelValues(method, normalizeRoute(route)).Observe(elapsed.Seconds())
}

// IncInFlight tracks a request entering the handler chain.
func (h *HTTPMetrics) IncInFlight() {
	if h == nil || h.inFlight == nil {
		return
	}
	h.inFlight.Inc()
}

// DecInFlight tracks a request leaving the handler chain.
func (h *HTTPMetrics) DecInFlight() {
	if h == nil || h.inFlight == nil {
		return
	}
	h.inFlight.Dec()
}

func normalizeRoute(route string) string {
	if route == "" {
		return "unmatched"
	}
	return route
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
