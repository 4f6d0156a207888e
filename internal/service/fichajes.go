// fichajes.go — сервис записи событий clock-in/clock-out.
// Создание одиночного события, ретроактивной ручной пары Entrada+Salida
// и выборка истории пользователя.
package service

import (
	"context"
	"log/slog"

	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/api/middleware"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/clock"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/domain/model"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/supabase"
)

// tablaFichajes — таблица событий в хранилище.
const tablaFichajes = "fichajes"

// LimiteFichajesDefault — limit выборки по умолчанию.
const LimiteFichajesDefault = 200

// FichajesService — сервис событий фичажа.
type FichajesService struct {
	store  RecordStore
	clk    *clock.Clock
	logger *slog.Logger
}

// NewFichajesService создаёт сервис фичажей.
func NewFichajesService(store RecordStore, clk *clock.Clock, logger *slog.Logger) *FichajesService {
	return &FichajesService{
		store:  store,
		clk:    clk,
		logger: logger.With(slog.String("component", "fichajes_service")),
	}
}

// CrearFichajeParams — параметры создания одиночного события.
type CrearFichajeParams struct {
	UserID        string
	Empleado      string
	Tipo          string
	Observaciones string
	Fuente        string
}

// Crear записывает одно событие Entrada/Salida с текущим моментом.
// Пара fecha_local/fecha_utc берётся одним сэмплом NowPair, оба значения
// обозначают один физический момент.
func (s *FichajesService) Crear(ctx context.Context, p CrearFichajeParams) (*model.Fichaje, *Error) {
	if p.UserID == "" {
		return nil, validationError("user_id es obligatorio")
	}

	tipo, err := model.ParseTipoFichaje(p.Tipo)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}

	fuente, err := model.ParseFuente(p.Fuente)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}

	local, utc := s.clk.NowPair()

	row := model.Fichaje{
		UserID:        p.UserID,
		Empleado:      optional(p.Empleado),
		FechaLocal:    clock.FormatStore(local),
		FechaUTC:      clock.FormatStore(utc),
		Tipo:          tipo,
		Observaciones: p.Observaciones,
		Fuente:        fuente,
	}

	inserted, serr := s.insert(ctx, []model.Fichaje{row})
	if serr != nil {
		return nil, serr
	}

	s.logger.Info("Fichaje creado",
		slog.String("user_id", p.UserID),
		slog.String("tipo", string(tipo)),
		slog.String("fuente", string(fuente)),
	)

	return &inserted[0], nil
}

// CrearParManualParams — параметры ретроактивной ручной пары.
type CrearParManualParams struct {
	UserID        string
	Entrada       string // "YYYY-MM-DD HH:MM"
	Salida        string // "YYYY-MM-DD HH:MM"
	Observaciones string
}

// CrearParManual записывает пару Entrada+Salida, введённую задним числом.
// Обе метки парсятся до любого обращения к хранилищу: ошибка формата любой
// из них отменяет операцию целиком, частичных вставок не бывает.
// UTC обеих строк вычисляется от ОДНОГО сэмпла (refLocal, refUTC).
// Возвращает количество вставленных строк (2).
func (s *FichajesService) CrearParManual(ctx context.Context, p CrearParManualParams) (int, *Error) {
	if p.UserID == "" {
		return 0, validationError("user_id es obligatorio")
	}

	entradaLocal, err := clock.ParseLocal(p.Entrada)
	if err != nil {
		return 0, validationError("entrada: %s", err.Error())
	}

	salidaLocal, err := clock.ParseLocal(p.Salida)
	if err != nil {
		return 0, validationError("salida: %s", err.Error())
	}

	// Один сэмпл смещения для обеих строк, без пересэмплирования
	refLocal, refUTC := s.clk.NowPair()

	rows := []model.Fichaje{
		{
			UserID:        p.UserID,
			FechaLocal:    clock.FormatStore(entradaLocal),
			FechaUTC:      clock.FormatStore(s.clk.ToUTC(entradaLocal, refLocal, refUTC)),
			Tipo:          model.TipoEntrada,
			Observaciones: p.Observaciones,
			Fuente:        model.FuenteAjusteMovil,
		},
		{
			UserID:        p.UserID,
			FechaLocal:    clock.FormatStore(salidaLocal),
			FechaUTC:      clock.FormatStore(s.clk.ToUTC(salidaLocal, refLocal, refUTC)),
			Tipo:          model.TipoSalida,
			Observaciones: p.Observaciones,
			Fuente:        model.FuenteAjusteMovil,
		},
	}

	inserted, serr := s.insert(ctx, rows)
	if serr != nil {
		return 0, serr
	}

	s.logger.Info("Par manual creado",
		slog.String("user_id", p.UserID),
		slog.String("entrada", p.Entrada),
		slog.String("salida", p.Salida),
	)

	return len(inserted), nil
}

// Listar возвращает события пользователя, новые первыми.
// Порядок определяет created_at_utc, назначаемый хранилищем при вставке,
// а не присланные клиентом метки. limit <= 0 — значение по умолчанию.
func (s *FichajesService) Listar(ctx context.Context, userID string, limit int) ([]model.Fichaje, *Error) {
	if userID == "" {
		return nil, validationError("user_id es obligatorio")
	}
	if limit <= 0 {
		limit = LimiteFichajesDefault
	}

	q := supabase.Query{
		Filters: []supabase.Filter{{Column: "user_id", Value: userID}},
		OrderBy: "created_at_utc",
		Desc:    true,
		Limit:   limit,
	}

	var rows []model.Fichaje
	if err := s.store.Select(ctx, tablaFichajes, q, &rows); err != nil {
		return nil, storeError(err)
	}

	return rows, nil
}

// insert выполняет один вызов Insert и проверяет полноту результата.
// Частичная вставка (меньше строк, чем отправлено) трактуется как провал
// операции; компенсирующих удалений сервис не делает.
func (s *FichajesService) insert(ctx context.Context, rows []model.Fichaje) ([]model.Fichaje, *Error) {
	var inserted []model.Fichaje
	if err := s.store.Insert(ctx, tablaFichajes, rows, &inserted); err != nil {
		middleware.RecordsTotal.WithLabelValues(tablaFichajes, "error").Inc()
		return nil, storeError(err)
	}
	if len(inserted) != len(rows) {
		middleware.RecordsTotal.WithLabelValues(tablaFichajes, "error").Inc()
		return nil, storeError(errPartialInsert(len(rows), len(inserted)))
	}

	middleware.RecordsTotal.WithLabelValues(tablaFichajes, "success").Inc()
	return inserted, nil
}
