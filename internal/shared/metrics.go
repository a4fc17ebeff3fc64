package shared

import (
	"context"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AppMetrics bundles every prometheus collector the server records into.
type AppMetrics struct {
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	memoryUsage      prometheus.Gauge
	goroutines       prometheus.Gauge
	todoOperations   *prometheus.CounterVec
	authOperations   *prometheus.CounterVec
	rateLimitHits    *prometheus.CounterVec
	rateLimitAllowed *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	metrics := &AppMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		memoryUsage: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "memory_usage_bytes",
				Help: "Memory usage in bytes",
			},
		),
		goroutines: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "goroutines_total",
				Help: "Number of goroutines",
			},
		),
		todoOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_operations_total",
				Help: "Total number of todo operations",
			},
			[]string{"operation"},
		),
		authOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_operations_total",
				Help: "Total number of auth operations",
			},
			[]string{"operation", "outcome"},
		),
		rateLimitHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_hits_total",
				Help: "Total number of rate limit hits",
			},
			[]string{"path", "key_type"},
		),
		rateLimitAllowed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_allowed_total",
				Help: "Total number of requests allowed by rate limiter",
			},
			[]string{"path", "key_type"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of response cache hits",
			},
			[]string{"path"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of response cache misses",
			},
			[]string{"path"},
		),
	}

	registry.MustRegister(
		metrics.requestDuration,
		metrics.requestTotal,
		metrics.memoryUsage,
		metrics.goroutines,
		metrics.todoOperations,
		metrics.authOperations,
		metrics.rateLimitHits,
		metrics.rateLimitAllowed,
		metrics.cacheHits,
		metrics.cacheMisses,
	)

	return metrics
}

func (m *AppMetrics) RecordRequest(method, path, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, status).Inc()
}

func (m *AppMetrics) RecordTodoOperation(operation string) {
	m.todoOperations.WithLabelValues(operation).Inc()
}

func (m *AppMetrics) RecordAuthOperation(operation, outcome string) {
	m.authOperations.WithLabelValues(operation, outcome).Inc()
}

func (m *AppMetrics) RecordRateLimitHit(path, keyType string) {
	m.rateLimitHits.WithLabelValues(path, keyType).Inc()
}

func (m *AppMetrics) RecordRateLimitAllowed(path, keyType string) {
	m.rateLimitAllowed.WithLabelValues(path, keyType).Inc()
}

func (m *AppMetrics) RecordCacheHit(path string) {
	m.cacheHits.WithLabelValues(path).Inc()
}

func (m *AppMetrics) RecordCacheMiss(path string) {
	m.cacheMisses.WithLabelValues(path).Inc()
}

// StartSystemMetrics samples process gauges every 15 seconds until ctx ends.
func (m *AppMetrics) StartSystemMetrics(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				var memStats runtime.MemStats
				runtime.ReadMemStats(&memStats)

				m.memoryUsage.Set(float64(memStats.Alloc))
				m.goroutines.Set(float64(runtime.NumGoroutine()))
			}
		}
	}()
}
