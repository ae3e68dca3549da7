// Package metrics содержит метрики Prometheus сервиса.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты обращений к провайдерам.
const (
	ResultSuccess     = "success"
	ResultError       = "error"
	ResultBreakerOpen = "breaker_open"
)

var (
	// HTTP API.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summit_api_requests_total",
			Help: "Количество HTTP-запросов к API",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summit_api_request_duration_seconds",
			Help:    "Длительность обработки HTTP-запросов",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Внешние провайдеры.
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summit_provider_requests_total",
			Help: "Количество запросов к внешним провайдерам",
		},
		[]string{"provider", "operation", "result"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "summit_provider_request_duration_seconds",
			Help:    "Длительность запросов к внешним провайдерам",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "summit_circuit_breaker_state",
			Help: "Состояние предохранителя (0 - closed, 1 - half-open, 2 - open)",
		},
		[]string{"name"},
	)

	// Кэш.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summit_cache_hits_total",
			Help: "Попадания в кэш",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summit_cache_misses_total",
			Help: "Промахи кэша",
		},
		[]string{"cache"},
	)

	// Предметная область.
	DownloadsIncremented = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "summit_downloads_incremented_total",
			Help: "Количество зафиксированных скачиваний через сайт",
		},
		[]string{"resolution", "platform"},
	)

	DuplicateScreenshotsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summit_duplicate_screenshots_rejected_total",
			Help: "Количество отклоненных дубликатов скриншотов",
		},
	)
)

// RecordAPIRequest фиксирует обработанный HTTP-запрос.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordProviderRequest фиксирует обращение к внешнему провайдеру.
func RecordProviderRequest(provider, operation, result string, duration time.Duration) {
	ProviderRequestsTotal.WithLabelValues(provider, operation, result).Inc()
	ProviderRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

// RecordCacheLookup фиксирует попадание или промах кэша.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
		return
	}
	CacheMisses.WithLabelValues(cache).Inc()
}
