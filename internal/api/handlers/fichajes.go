// fichajes.go — обработчики событий clock-in/clock-out.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	apierrors "github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/api/errors"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/domain/model"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/service"
)

// FichajesHandler — обработчики endpoints /fichajes.
type FichajesHandler struct {
	svc    *service.FichajesService
	logger *slog.Logger
}

// NewFichajesHandler создаёт обработчик фичажей.
func NewFichajesHandler(svc *service.FichajesService, logger *slog.Logger) *FichajesHandler {
	return &FichajesHandler{
		svc:    svc,
		logger: logger.With(slog.String("component", "fichajes_handler")),
	}
}

// Crear обрабатывает POST /fichajes.
// Принимает form-data: user_id, tipo (Entrada|Salida), empleado,
// observaciones, fuente. Момент события назначает сервер.
func (h *FichajesHandler) Crear(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apierrors.ValidationError(w, "formulario inválido: "+err.Error())
		return
	}

	rec, serr := h.svc.Crear(r.Context(), service.CrearFichajeParams{
		UserID:        r.PostFormValue("user_id"),
		Empleado:      r.PostFormValue("empleado"),
		Tipo:          r.PostFormValue("tipo"),
		Observaciones: r.PostFormValue("observaciones"),
		Fuente:        r.PostFormValue("fuente"),
	})
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// CrearParManual обрабатывает POST /fichajes/manual-par.
// Принимает form-data: user_id, entrada, salida ("YYYY-MM-DD HH:MM"),
// observaciones. Вставляет пару Entrada+Salida задним числом.
func (h *FichajesHandler) CrearParManual(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apierrors.ValidationError(w, "formulario inválido: "+err.Error())
		return
	}

	n, serr := h.svc.CrearParManual(r.Context(), service.CrearParManualParams{
		UserID:        r.PostFormValue("user_id"),
		Entrada:       r.PostFormValue("entrada"),
		Salida:        r.PostFormValue("salida"),
		Observaciones: r.PostFormValue("observaciones"),
	})
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":       true,
		"inserted": n,
	})
}

// Listar обрабатывает GET /fichajes?user_id=...&limit=...
// Возвращает события пользователя, новые первыми.
func (h *FichajesHandler) Listar(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")

	limit, serr := parseLimit(r.URL.Query().Get("limit"))
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	rows, serr := h.svc.Listar(r.Context(), userID, limit)
	if serr != nil {
		writeServiceError(w, serr)
		return
	}
	if rows == nil {
		rows = []model.Fichaje{}
	}

	writeJSON(w, http.StatusOK, rows)
}

// parseLimit разбирает необязательный query-параметр limit.
// Пустая строка — 0, сервис подставит значение по умолчанию.
func parseLimit(raw string) (int, *service.Error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.Error{
			StatusCode: http.StatusBadRequest,
			Code:       apierrors.CodeValidationError,
			Message:    "limit debe ser un número entero",
		}
	}
	return limit, nil
}
