package telemetry

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics exposes Prometheus observability primitives for the admin backend.
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	storeWrites  *prometheus.CounterVec
}

// NewMetrics registers and returns the application metrics.
func NewMetrics() *Metrics {
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "walletadmin_http_requests_total",
		Help: "Counts HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "walletadmin_http_duration_seconds",
		Help:    "HTTP request latency per method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	storeWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "walletadmin_store_writes_total",
		Help: "Counts tenant store write operations by kind.",
	}, []string{"op"})

	prometheus.MustRegister(httpRequests, httpDuration, storeWrites)

	return &Metrics{
		httpRequests: httpRequests,
		httpDuration: httpDuration,
		storeWrites:  storeWrites,
	}
}

// StoreWrite records one successful store write of the given kind.
func (m *Metrics) StoreWrite(op string) {
	if m == nil {
		return
	}
	m.storeWrites.WithLabelValues(op).Inc()
}

// GinMiddleware records request counts and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
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
		status := strconv.Itoa(c.Writer.Status())

		m.httpRequests.WithLabelValues(method, route, status).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Module wires application metrics.
var Module = fx.Module("telemetry",
	fx.Provide(NewMetrics),
)
