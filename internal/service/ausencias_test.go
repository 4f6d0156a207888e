package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

// fakeObjects — фейковое хранилище вложений.
// failOn — номер загрузки (с 1), на которой вернуть ошибку.
type fakeObjects struct {
	uploads []string // пути в порядке загрузки
	failOn  int
}

func (f *fakeObjects) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	if f.failOn > 0 && len(f.uploads)+1 == f.failOn {
		return errors.New("storage caído")
	}
	f.uploads = append(f.uploads, path)
	return nil
}

func (f *fakeObjects) PublicURL(bucket, path string) string {
	return fmt.Sprintf("https://cdn.test/%s/%s", bucket, path)
}

func newAusenciasService(store *fakeStore, objects *fakeObjects) *AusenciasService {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	adjuntos := NewAdjuntosService(objects, "adjuntos", fixedClock(now), testLogger())
	return NewAusenciasService(store, adjuntos, nil, testLogger())
}

func TestCrearVacaciones_EstadoPendiente(t *testing.T) {
	store := &fakeStore{}
	svc := newAusenciasService(store, &fakeObjects{})

	// dias не пересчитывается из диапазона: 99 дней на двухдневный
	// интервал принимается как есть
	v, serr := svc.CrearVacaciones(context.Background(), CrearVacacionesParams{
		UserID:      "u1",
		FechaInicio: "2024-07-01",
		FechaFin:    "2024-07-02",
		Dias:        99,
		Comentario:  "verano",
	})
	if serr != nil {
		t.Fatalf("CrearVacaciones: %v", serr)
	}

	if v.Estado != "Pendiente" {
		t.Errorf("estado: хотели Pendiente, получили %s", v.Estado)
	}
	if v.Dias != 99 {
		t.Errorf("dias: хотели 99 (как прислал клиент), получили %d", v.Dias)
	}
}

func TestCrearVacaciones_Validacion(t *testing.T) {
	store := &fakeStore{}
	svc := newAusenciasService(store, &fakeObjects{})

	tests := []struct {
		name   string
		params CrearVacacionesParams
	}{
		{"без user_id", CrearVacacionesParams{FechaInicio: "2024-07-01", FechaFin: "2024-07-05", Dias: 5}},
		{"fecha_inicio malformada", CrearVacacionesParams{UserID: "u1", FechaInicio: "01/07/2024", FechaFin: "2024-07-05", Dias: 5}},
		{"fecha_fin malformada", CrearVacacionesParams{UserID: "u1", FechaInicio: "2024-07-01", FechaFin: "julio", Dias: 5}},
		{"fin antes de inicio", CrearVacacionesParams{UserID: "u1", FechaInicio: "2024-07-05", FechaFin: "2024-07-01", Dias: 5}},
		{"dias negativo", CrearVacacionesParams{UserID: "u1", FechaInicio: "2024-07-01", FechaFin: "2024-07-05", Dias: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, serr := svc.CrearVacaciones(context.Background(), tt.params)
			if serr == nil {
				t.Fatal("ожидали ошибку валидации")
			}
			if serr.StatusCode != 400 {
				t.Errorf("статус: хотели 400, получили %d", serr.StatusCode)
			}
		})
	}
	if len(store.inserts) != 0 {
		t.Error("при ошибках валидации хранилище не должно вызываться")
	}
}

func TestListarVacaciones_OrdenPorFechaInicio(t *testing.T) {
	store := &fakeStore{}
	svc := newAusenciasService(store, &fakeObjects{})

	if _, serr := svc.ListarVacaciones(context.Background(), "u1", 0); serr != nil {
		t.Fatalf("ListarVacaciones: %v", serr)
	}

	q := store.selects[0]
	if q.OrderBy != "fecha_inicio" || !q.Desc {
		t.Errorf("сортировка: %s desc=%v", q.OrderBy, q.Desc)
	}
	if q.Limit != LimiteVacacionesDefault {
		t.Errorf("limit по умолчанию: хотели %d, получили %d", LimiteVacacionesDefault, q.Limit)
	}
}

func TestCrearBaja_AdjuntosEnOrden(t *testing.T) {
	store := &fakeStore{}
	objects := &fakeObjects{}
	svc := newAusenciasService(store, objects)

	b, serr := svc.CrearBaja(context.Background(), CrearBajaParams{
		UserID:      "u1",
		Tipo:        "enfermedad",
		FechaInicio: "2024-01-10",
		Archivos: []Adjunto{
			{Nombre: "parte1.pdf", ContentType: "application/pdf", Datos: []byte("a")},
			{Nombre: "parte2.pdf", ContentType: "application/pdf", Datos: []byte("b")},
			{Nombre: "foto.jpg", ContentType: "image/jpeg", Datos: []byte("c")},
		},
	})
	if serr != nil {
		t.Fatalf("CrearBaja: %v", serr)
	}

	if b.Estado != "Notificada" {
		t.Errorf("estado: хотели Notificada, получили %s", b.Estado)
	}

	urls := strings.Split(b.Archivos, ";")
	if len(urls) != 3 {
		t.Fatalf("ссылок: хотели 3, получили %d (%s)", len(urls), b.Archivos)
	}
	// Порядок ссылок совпадает с порядком подачи файлов
	for i, name := range []string{"parte1.pdf", "parte2.pdf", "foto.jpg"} {
		if !strings.HasSuffix(urls[i], name) {
			t.Errorf("ссылка %d: хотели суффикс %s, получили %s", i, name, urls[i])
		}
	}

	// Путь содержит владельца и момент UTC
	if !strings.HasPrefix(objects.uploads[0], "bajas/u1/20240110_090000_") {
		t.Errorf("путь загрузки: %s", objects.uploads[0])
	}
}

func TestCrearBaja_FalloDeSubidaAbortaTodo(t *testing.T) {
	store := &fakeStore{}
	objects := &fakeObjects{failOn: 2}
	svc := newAusenciasService(store, objects)

	_, serr := svc.CrearBaja(context.Background(), CrearBajaParams{
		UserID:      "u1",
		Tipo:        "enfermedad",
		FechaInicio: "2024-01-10",
		Archivos: []Adjunto{
			{Nombre: "parte1.pdf", Datos: []byte("a")},
			{Nombre: "parte2.pdf", Datos: []byte("b")},
			{Nombre: "foto.jpg", Datos: []byte("c")},
		},
	})
	if serr == nil {
		t.Fatal("ошибка второй загрузки должна отменять операцию")
	}
	if serr.Code != "UPLOAD_ERROR" {
		t.Errorf("код: хотели UPLOAD_ERROR, получили %s", serr.Code)
	}

	// Запись не создана, третий файл не загружался; первый остаётся
	// сиротой в object store — это допустимо и не компенсируется
	if len(store.inserts) != 0 {
		t.Error("строка не должна вставляться при ошибке загрузки")
	}
	if len(objects.uploads) != 1 {
		t.Errorf("загрузок до ошибки: хотели 1, получили %d", len(objects.uploads))
	}
}

func TestCrearBaja_SinAdjuntos(t *testing.T) {
	store := &fakeStore{}
	svc := newAusenciasService(store, &fakeObjects{})

	b, serr := svc.CrearBaja(context.Background(), CrearBajaParams{
		UserID:      "u1",
		Tipo:        "enfermedad",
		FechaInicio: "2024-01-10",
		FechaFin:    "2024-01-15",
		Descripcion: "gripe",
	})
	if serr != nil {
		t.Fatalf("CrearBaja: %v", serr)
	}
	if b.Archivos != "" {
		t.Errorf("archivos: хотели пустую строку, получили %q", b.Archivos)
	}
	if b.FechaFin == nil || *b.FechaFin != "2024-01-15" {
		t.Errorf("fecha_fin: %v", b.FechaFin)
	}
}

func TestCrearBaja_FechaFinAbierta(t *testing.T) {
	store := &fakeStore{}
	svc := newAusenciasService(store, &fakeObjects{})

	b, serr := svc.CrearBaja(context.Background(), CrearBajaParams{
		UserID:      "u1",
		Tipo:        "intervencion",
		FechaInicio: "2024-01-10",
	})
	if serr != nil {
		t.Fatalf("CrearBaja: %v", serr)
	}
	if b.FechaFin != nil {
		t.Errorf("открытый больничный: fecha_fin должна быть nil, получили %v", *b.FechaFin)
	}
}

func TestCrearBaja_Validacion(t *testing.T) {
	store := &fakeStore{}
	svc := newAusenciasService(store, &fakeObjects{})

	tests := []struct {
		name   string
		params CrearBajaParams
	}{
		{"без tipo", CrearBajaParams{UserID: "u1", FechaInicio: "2024-01-10"}},
		{"fecha_inicio malformada", CrearBajaParams{UserID: "u1", Tipo: "enfermedad", FechaInicio: "10-01-2024"}},
		{"fin antes de inicio", CrearBajaParams{UserID: "u1", Tipo: "enfermedad", FechaInicio: "2024-01-10", FechaFin: "2024-01-05"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, serr := svc.CrearBaja(context.Background(), tt.params); serr == nil {
				t.Fatal("ожидали ошибку валидации")
			}
		})
	}
}
