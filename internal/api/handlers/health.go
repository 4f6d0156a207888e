// health.go — обработчики health endpoints для Kubernetes probes.
package handlers

import (
	"net/http"
	"time"

	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/config"
)

// statusFail — строковая константа для статуса "fail" в health checks.
const statusFail = "fail"

// ReadinessChecker — проверка доступности внешней зависимости.
// Возвращает статус ("ok"|"fail") и человекочитаемое сообщение.
type ReadinessChecker interface {
	CheckReady() (string, string)
}

// HealthHandler реализует health endpoints: /health/live, /health/ready.
type HealthHandler struct {
	version string
	// store — проверка табличного хранилища (nil отключает проверку)
	store ReadinessChecker
}

// NewHealthHandler создаёт обработчик health endpoints.
func NewHealthHandler(store ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		version: config.Version,
		store:   store,
	}
}

// HealthLive обрабатывает GET /health/live.
// Возвращает 200, если процесс жив. Не проверяет зависимости.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"service":   "fichajes-backend",
	})
}

// HealthReady обрабатывает GET /health/ready.
// Проверяет доступность табличного хранилища: сервис без него
// не может обслужить ни одну операцию записи.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	overallStatus := "ok"
	httpStatus := http.StatusOK

	checks := map[string]any{}
	if h.store != nil {
		status, message := h.store.CheckReady()
		check := map[string]any{"status": status}
		if message != "" {
			check["message"] = message
		}
		checks["store"] = check

		if status != "ok" {
			overallStatus = statusFail
			httpStatus = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"service":   "fichajes-backend",
		"checks":    checks,
	})
}
