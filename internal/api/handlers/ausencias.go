// ausencias.go — обработчики отпусков и больничных.
package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	apierrors "github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/api/errors"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/domain/model"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/service"
)

// AusenciasHandler — обработчики endpoints /vacaciones и /bajas.
type AusenciasHandler struct {
	svc *service.AusenciasService
	// maxUploadSize — предел суммарного размера multipart-формы в байтах
	maxUploadSize int64
	logger        *slog.Logger
}

// NewAusenciasHandler создаёт обработчик отсутствий.
func NewAusenciasHandler(svc *service.AusenciasService, maxUploadSize int64, logger *slog.Logger) *AusenciasHandler {
	return &AusenciasHandler{
		svc:           svc,
		maxUploadSize: maxUploadSize,
		logger:        logger.With(slog.String("component", "ausencias_handler")),
	}
}

// CrearVacaciones обрабатывает POST /vacaciones.
// Принимает form-data: user_id, fecha_inicio, fecha_fin ("YYYY-MM-DD"),
// dias, comentario. Заявка всегда создаётся в состоянии Pendiente.
func (h *AusenciasHandler) CrearVacaciones(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apierrors.ValidationError(w, "formulario inválido: "+err.Error())
		return
	}

	dias := 0
	if raw := r.PostFormValue("dias"); raw != "" {
		var err error
		dias, err = strconv.Atoi(raw)
		if err != nil {
			apierrors.ValidationError(w, "dias debe ser un número entero")
			return
		}
	}

	v, serr := h.svc.CrearVacaciones(r.Context(), service.CrearVacacionesParams{
		UserID:      r.PostFormValue("user_id"),
		FechaInicio: r.PostFormValue("fecha_inicio"),
		FechaFin:    r.PostFormValue("fecha_fin"),
		Dias:        dias,
		Comentario:  r.PostFormValue("comentario"),
	})
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

// ListarVacaciones обрабатывает GET /vacaciones?user_id=...&limit=...
func (h *AusenciasHandler) ListarVacaciones(w http.ResponseWriter, r *http.Request) {
	limit, serr := parseLimit(r.URL.Query().Get("limit"))
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	rows, serr := h.svc.ListarVacaciones(r.Context(), r.URL.Query().Get("user_id"), limit)
	if serr != nil {
		writeServiceError(w, serr)
		return
	}
	if rows == nil {
		rows = []model.Vacacion{}
	}

	writeJSON(w, http.StatusOK, rows)
}

// CrearBaja обрабатывает POST /bajas.
// Принимает multipart/form-data: user_id, tipo, fecha_inicio, fecha_fin,
// descripcion и файлы в поле files. Форма без файлов тоже допустима —
// тогда принимается обычный urlencoded POST.
func (h *AusenciasHandler) CrearBaja(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			apierrors.ValidationError(w, "formulario inválido: "+err.Error())
			return
		}
		if err := r.ParseForm(); err != nil {
			apierrors.ValidationError(w, "formulario inválido: "+err.Error())
			return
		}
	}

	archivos, serr := h.leerAdjuntos(r)
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	b, serr := h.svc.CrearBaja(r.Context(), service.CrearBajaParams{
		UserID:      r.PostFormValue("user_id"),
		Tipo:        r.PostFormValue("tipo"),
		FechaInicio: r.PostFormValue("fecha_inicio"),
		FechaFin:    r.PostFormValue("fecha_fin"),
		Descripcion: r.PostFormValue("descripcion"),
		Archivos:    archivos,
	})
	if serr != nil {
		writeServiceError(w, serr)
		return
	}

	writeJSON(w, http.StatusCreated, b)
}

// leerAdjuntos читает файлы multipart-формы в память, сохраняя порядок
// подачи. Суммарный размер уже ограничен ParseMultipartForm.
func (h *AusenciasHandler) leerAdjuntos(r *http.Request) ([]service.Adjunto, *service.Error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var archivos []service.Adjunto
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return nil, &service.Error{
				StatusCode: http.StatusBadRequest,
				Code:       apierrors.CodeValidationError,
				Message:    "no se pudo leer el archivo " + fh.Filename,
			}
		}

		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, &service.Error{
				StatusCode: http.StatusBadRequest,
				Code:       apierrors.CodeValidationError,
				Message:    "no se pudo leer el archivo " + fh.Filename,
			}
		}

		archivos = append(archivos, service.Adjunto{
			Nombre:      fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Datos:       data,
		})
	}

	return archivos, nil
}
