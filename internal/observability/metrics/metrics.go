package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Config configures metric constant labels.
type Config struct {
	ServiceName string
	Environment string
}

func (c Config) serviceName() string {
	name := strings.TrimSpace(c.ServiceName)
	if name == "" {
		return "safeguard"
	}
	return name
}

// HTTPMetrics exposes request-level instruments served at /metrics.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics(cfg Config) *HTTPMetrics {
	constLabels := prometheus.Labels{
		"service": cfg.serviceName(),
		"env":     strings.TrimSpace(cfg.Environment),
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "safeguard_http_requests_total",
		Help:        "Count of HTTP requests by route and status.",
		ConstLabels: constLabels,
	}, []string{"method", "route", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "safeguard_http_request_duration_seconds",
		Help:        "HTTP request latency by route.",
		ConstLabels: constLabels,
		Buckets:     prometheus.DefBuckets,
	}, []string{"method", "route"})

	prometheus.DefaultRegisterer.MustRegister(requests, duration)

	return &HTTPMetrics{
		requests: requests,
		duration: duration,
	}
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method

		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
