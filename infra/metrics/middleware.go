package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMiddleware counts API requests and their latency partitioned by status
// code, method and chi route pattern.
type HTTPMiddleware struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewHTTPMiddleware registers the request collectors on reg, the default
// registerer when nil.
func NewHTTPMiddleware(reg prometheus.Registerer) (*HTTPMiddleware, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assetplan_http_requests_total",
		Help: "Number of HTTP requests partitioned by status code, method and route.",
	}, []string{"code", "method", "path"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "assetplan_http_request_duration_seconds",
		Help:    "Time spent on the request partitioned by status code, method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"code", "method", "path"})

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if latency, err = register(reg, latency); err != nil {
		return nil, err
	}
	return &HTTPMiddleware{requests: requests, latency: latency}, nil
}

// Handler wraps next.
func (m *HTTPMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		code := strconv.Itoa(ww.Status())
		m.requests.WithLabelValues(code, r.Method, path).Inc()
		m.latency.WithLabelValues(code, r.Method, path).Observe(time.Since(start).Seconds())
	})
}
