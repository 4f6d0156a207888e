// ausencias.go — интейк отсутствий: заявки на отпуск и уведомления
// о больничных.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/api/middleware"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/clock"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/domain/model"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/supabase"
)

// Таблицы отсутствий в хранилище.
const (
	tablaVacaciones = "vacaciones"
	tablaBajas      = "bajas"
)

// LimiteVacacionesDefault — limit выборки отпусков по умолчанию.
const LimiteVacacionesDefault = 100

// AusenciasService — сервис интейка отсутствий.
type AusenciasService struct {
	store       RecordStore
	adjuntos    *AdjuntosService
	notificador *Notificador
	logger      *slog.Logger
}

// NewAusenciasService создаёт сервис отсутствий.
// notificador может быть nil — уведомления отключены.
func NewAusenciasService(store RecordStore, adjuntos *AdjuntosService, notificador *Notificador, logger *slog.Logger) *AusenciasService {
	return &AusenciasService{
		store:       store,
		adjuntos:    adjuntos,
		notificador: notificador,
		logger:      logger.With(slog.String("component", "ausencias_service")),
	}
}

// CrearVacacionesParams — параметры заявки на отпуск.
type CrearVacacionesParams struct {
	UserID      string
	FechaInicio string // "YYYY-MM-DD"
	FechaFin    string // "YYYY-MM-DD"
	Dias        int
	Comentario  string
}

// CrearVacaciones записывает заявку на отпуск в состоянии Pendiente.
// Dias принимается как прислал клиент и не сверяется с диапазоном дат —
// граница доверия явная, пересчёт добавляется здесь при необходимости.
func (s *AusenciasService) CrearVacaciones(ctx context.Context, p CrearVacacionesParams) (*model.Vacacion, *Error) {
	if p.UserID == "" {
		return nil, validationError("user_id es obligatorio")
	}

	inicio, err := clock.ParseFecha(p.FechaInicio)
	if err != nil {
		return nil, validationError("fecha_inicio: %s", err.Error())
	}
	fin, err := clock.ParseFecha(p.FechaFin)
	if err != nil {
		return nil, validationError("fecha_fin: %s", err.Error())
	}
	if fin.Before(inicio) {
		return nil, validationError("fecha_fin %s anterior a fecha_inicio %s", p.FechaFin, p.FechaInicio)
	}
	if p.Dias < 0 {
		return nil, validationError("dias debe ser >= 0")
	}

	row := model.Vacacion{
		UserID:      p.UserID,
		FechaInicio: p.FechaInicio,
		FechaFin:    p.FechaFin,
		Dias:        p.Dias,
		Comentario:  p.Comentario,
		Estado:      model.VacacionPendiente,
	}

	var inserted []model.Vacacion
	if err := s.store.Insert(ctx, tablaVacaciones, []model.Vacacion{row}, &inserted); err != nil {
		middleware.RecordsTotal.WithLabelValues(tablaVacaciones, "error").Inc()
		return nil, storeError(err)
	}
	if len(inserted) == 0 {
		middleware.RecordsTotal.WithLabelValues(tablaVacaciones, "error").Inc()
		return nil, storeError(errPartialInsert(1, 0))
	}
	middleware.RecordsTotal.WithLabelValues(tablaVacaciones, "success").Inc()

	s.logger.Info("Solicitud de vacaciones creada",
		slog.String("user_id", p.UserID),
		slog.String("fecha_inicio", p.FechaInicio),
		slog.String("fecha_fin", p.FechaFin),
		slog.Int("dias", p.Dias),
	)

	// Уведомление best-effort: ошибка SMTP не валит запрос
	s.notificador.NotificarVacaciones(&inserted[0])

	return &inserted[0], nil
}

// ListarVacaciones возвращает заявки пользователя, поздние даты начала
// первыми. limit <= 0 — значение по умолчанию.
func (s *AusenciasService) ListarVacaciones(ctx context.Context, userID string, limit int) ([]model.Vacacion, *Error) {
	if userID == "" {
		return nil, validationError("user_id es obligatorio")
	}
	if limit <= 0 {
		limit = LimiteVacacionesDefault
	}

	q := supabase.Query{
		Filters: []supabase.Filter{{Column: "user_id", Value: userID}},
		OrderBy: "fecha_inicio",
		Desc:    true,
		Limit:   limit,
	}

	var rows []model.Vacacion
	if err := s.store.Select(ctx, tablaVacaciones, q, &rows); err != nil {
		return nil, storeError(err)
	}

	return rows, nil
}

// CrearBajaParams — параметры уведомления о больничном.
type CrearBajaParams struct {
	UserID      string
	Tipo        string
	FechaInicio string // "YYYY-MM-DD"
	FechaFin    string // "YYYY-MM-DD", пустая строка — открытый больничный
	Descripcion string
	Archivos    []Adjunto
}

// CrearBaja записывает уведомление о больничном в состоянии Notificada.
// Вложения загружаются ДО вставки строки: любая неудачная загрузка
// отменяет операцию, запись не создаётся. С точки зрения этого сервиса
// вложения привязываются к записи атомарно при создании.
func (s *AusenciasService) CrearBaja(ctx context.Context, p CrearBajaParams) (*model.Baja, *Error) {
	if p.UserID == "" {
		return nil, validationError("user_id es obligatorio")
	}
	if p.Tipo == "" {
		return nil, validationError("tipo es obligatorio")
	}

	inicio, err := clock.ParseFecha(p.FechaInicio)
	if err != nil {
		return nil, validationError("fecha_inicio: %s", err.Error())
	}
	if p.FechaFin != "" {
		fin, err := clock.ParseFecha(p.FechaFin)
		if err != nil {
			return nil, validationError("fecha_fin: %s", err.Error())
		}
		if fin.Before(inicio) {
			return nil, validationError("fecha_fin %s anterior a fecha_inicio %s", p.FechaFin, p.FechaInicio)
		}
	}

	var urls []string
	if len(p.Archivos) > 0 {
		var serr *Error
		urls, serr = s.adjuntos.SubirTodo(ctx, p.UserID, p.Archivos)
		if serr != nil {
			return nil, serr
		}
	}

	row := model.Baja{
		UserID:      p.UserID,
		Tipo:        p.Tipo,
		FechaInicio: p.FechaInicio,
		FechaFin:    optional(p.FechaFin),
		Descripcion: p.Descripcion,
		Archivos:    strings.Join(urls, model.ArchivosSeparador),
		Estado:      model.BajaNotificada,
	}

	var inserted []model.Baja
	if err := s.store.Insert(ctx, tablaBajas, []model.Baja{row}, &inserted); err != nil {
		middleware.RecordsTotal.WithLabelValues(tablaBajas, "error").Inc()
		return nil, storeError(err)
	}
	if len(inserted) == 0 {
		middleware.RecordsTotal.WithLabelValues(tablaBajas, "error").Inc()
		return nil, storeError(errPartialInsert(1, 0))
	}
	middleware.RecordsTotal.WithLabelValues(tablaBajas, "success").Inc()

	s.logger.Info("Baja notificada",
		slog.String("user_id", p.UserID),
		slog.String("tipo", p.Tipo),
		slog.Int("adjuntos", len(urls)),
	)

	s.notificador.NotificarBaja(&inserted[0])

	return &inserted[0], nil
}
