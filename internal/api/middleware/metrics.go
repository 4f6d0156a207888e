// metrics.go — Prometheus HTTP метрики сервиса фичажей.
// Регистрирует метрики: fichajes_http_requests_total,
// fichajes_http_request_duration_seconds. Бизнес-метрика
// fichajes_records_total обновляется из сервисного слоя.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fichajes_http_requests_total",
			Help: "Общее количество HTTP-запросов к сервису фичажей",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fichajes_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к сервису фичажей в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Бизнес-метрики (экспортируются для обновления из сервисного слоя)
var (
	// RecordsTotal — количество созданных записей по таблицам.
	RecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fichajes_records_total",
			Help: "Количество записей интейка по таблицам и результату",
		},
		[]string{"table", "result"},
	)

	// AttachmentsTotal — количество загруженных вложений.
	AttachmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fichajes_attachments_total",
			Help: "Количество загрузок вложений по результату",
		},
		[]string{"result"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик: неизвестные пути
			// схлопываются, чтобы не раздувать кардинальность.
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// normalizePath схлопывает неизвестные пути в "unmatched".
// Все маршруты сервиса статические, параметров в пути нет.
func normalizePath(path string) string {
	switch path {
	case "/fichajes", "/fichajes/manual-par",
		"/vacaciones", "/bajas",
		"/health/live", "/health/ready", "/metrics":
		return path
	}
	return "unmatched"
}
