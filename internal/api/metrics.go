package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry          *prometheus.Registry
	requestTotal      *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	composeTotal      *prometheus.CounterVec
	rateLimitRejected prometheus.Counter
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bgcompose_api_requests_total",
			Help: "Total HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bgcompose_api_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		composeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bgcompose_compose_requests_total",
			Help: "Compose requests by outcome.",
		}, []string{"outcome"}),
		rateLimitRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bgcompose_rate_limit_rejections_total",
			Help: "Compose requests rejected by rate limiting.",
		}),
	}
	registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.composeTotal,
		m.rateLimitRejected,
	)
	return m
}

func (m *metrics) metricsHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (s *Server) withHTTPMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		s.metrics.requestTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		s.metrics.requestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}
