package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/clock"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/service"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/supabase"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fakeStore — фейковое табличное хранилище для HTTP-тестов.
type fakeStore struct {
	inserts   int
	insertErr error
	rows      string // JSON-массив для Select
}

func (f *fakeStore) Insert(ctx context.Context, table string, rows any, out any) error {
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (f *fakeStore) Select(ctx context.Context, table string, q supabase.Query, out any) error {
	rows := f.rows
	if rows == "" {
		rows = "[]"
	}
	return json.Unmarshal([]byte(rows), out)
}

// fakeObjects — фейковое хранилище вложений.
type fakeObjects struct {
	uploads []string
}

func (f *fakeObjects) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	f.uploads = append(f.uploads, path)
	return nil
}

func (f *fakeObjects) PublicURL(bucket, path string) string {
	return "https://cdn.test/" + bucket + "/" + path
}

func testClock() *clock.Clock {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	return clock.NewWithNow(func() time.Time { return now })
}

func newFichajesHandler(store *fakeStore) *FichajesHandler {
	svc := service.NewFichajesService(store, testClock(), testLogger())
	return NewFichajesHandler(svc, testLogger())
}

func newAusenciasHandler(store *fakeStore, objects *fakeObjects) *AusenciasHandler {
	adjuntos := service.NewAdjuntosService(objects, "adjuntos", testClock(), testLogger())
	svc := service.NewAusenciasService(store, adjuntos, nil, testLogger())
	return NewAusenciasHandler(svc, 10<<20, testLogger())
}

func postForm(handler http.HandlerFunc, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestCrearFichaje_OK(t *testing.T) {
	store := &fakeStore{}
	h := newFichajesHandler(store)

	rec := postForm(h.Crear, url.Values{
		"user_id": {"u1"},
		"tipo":    {"Entrada"},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("статус: хотели 201, получили %d (%s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("декодирование ответа: %v", err)
	}
	if body["tipo"] != "Entrada" {
		t.Errorf("tipo: %v", body["tipo"])
	}
	if body["fecha_local"] != "2024-01-10 09:00:00" {
		t.Errorf("fecha_local: %v", body["fecha_local"])
	}
}

func TestCrearFichaje_TipoInvalido(t *testing.T) {
	store := &fakeStore{}
	h := newFichajesHandler(store)

	rec := postForm(h.Crear, url.Values{
		"user_id": {"u1"},
		"tipo":    {"Pausa"},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("статус: хотели 400, получили %d", rec.Code)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("декодирование ответа: %v", err)
	}
	if body.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("код ошибки: %s", body.Error.Code)
	}
	if store.inserts != 0 {
		t.Error("хранилище не должно вызываться")
	}
}

func TestCrearParManual_OK(t *testing.T) {
	store := &fakeStore{}
	h := newFichajesHandler(store)

	rec := postForm(h.CrearParManual, url.Values{
		"user_id": {"u1"},
		"entrada": {"2024-01-09 09:00"},
		"salida":  {"2024-01-09 17:30"},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("статус: хотели 201, получили %d (%s)", rec.Code, rec.Body.String())
	}

	var body struct {
		OK       bool `json:"ok"`
		Inserted int  `json:"inserted"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("декодирование ответа: %v", err)
	}
	if !body.OK || body.Inserted != 2 {
		t.Errorf("ответ: ok=%v inserted=%d", body.OK, body.Inserted)
	}
}

func TestListarFichajes_ArrayVacio(t *testing.T) {
	store := &fakeStore{}
	h := newFichajesHandler(store)

	req := httptest.NewRequest(http.MethodGet, "/fichajes?user_id=u1", nil)
	rec := httptest.NewRecorder()
	h.Listar(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("статус: %d", rec.Code)
	}
	// Пустая выборка — JSON-массив, не null
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("тело: хотели [], получили %s", got)
	}
}

func TestListarFichajes_LimitNoNumerico(t *testing.T) {
	h := newFichajesHandler(&fakeStore{})

	req := httptest.NewRequest(http.MethodGet, "/fichajes?user_id=u1&limit=muchos", nil)
	rec := httptest.NewRecorder()
	h.Listar(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("статус: хотели 400, получили %d", rec.Code)
	}
}

func TestCrearVacaciones_OK(t *testing.T) {
	store := &fakeStore{}
	h := newAusenciasHandler(store, &fakeObjects{})

	rec := postForm(h.CrearVacaciones, url.Values{
		"user_id":      {"u1"},
		"fecha_inicio": {"2024-07-01"},
		"fecha_fin":    {"2024-07-05"},
		"dias":         {"5"},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("статус: хотели 201, получили %d (%s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("декодирование ответа: %v", err)
	}
	if body["estado"] != "Pendiente" {
		t.Errorf("estado: %v", body["estado"])
	}
}

func TestCrearVacaciones_DiasNoNumerico(t *testing.T) {
	store := &fakeStore{}
	h := newAusenciasHandler(store, &fakeObjects{})

	rec := postForm(h.CrearVacaciones, url.Values{
		"user_id":      {"u1"},
		"fecha_inicio": {"2024-07-01"},
		"fecha_fin":    {"2024-07-05"},
		"dias":         {"cinco"},
	})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("статус: хотели 400, получили %d", rec.Code)
	}
	if store.inserts != 0 {
		t.Error("хранилище не должно вызываться")
	}
}

func TestCrearBaja_Multipart(t *testing.T) {
	store := &fakeStore{}
	objects := &fakeObjects{}
	h := newAusenciasHandler(store, objects)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("user_id", "u1")
	_ = mw.WriteField("tipo", "enfermedad")
	_ = mw.WriteField("fecha_inicio", "2024-01-10")
	for _, name := range []string{"parte1.pdf", "parte2.pdf"} {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("multipart: %v", err)
		}
		_, _ = io.WriteString(fw, "contenido")
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/bajas", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.CrearBaja(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("статус: хотели 201, получили %d (%s)", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("декодирование ответа: %v", err)
	}
	archivos, _ := body["archivos"].(string)
	if len(strings.Split(archivos, ";")) != 2 {
		t.Errorf("archivos: %s", archivos)
	}
	if len(objects.uploads) != 2 {
		t.Errorf("загрузок: хотели 2, получили %d", len(objects.uploads))
	}
}

func TestCrearBaja_SinArchivosFormSimple(t *testing.T) {
	store := &fakeStore{}
	h := newAusenciasHandler(store, &fakeObjects{})

	// urlencoded-форма без файлов тоже принимается
	rec := postForm(h.CrearBaja, url.Values{
		"user_id":      {"u1"},
		"tipo":         {"enfermedad"},
		"fecha_inicio": {"2024-01-10"},
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("статус: хотели 201, получили %d (%s)", rec.Code, rec.Body.String())
	}
}

// fakeReadiness — фейковая проверка зависимости.
type fakeReadiness struct {
	status  string
	message string
}

func (f *fakeReadiness) CheckReady() (string, string) { return f.status, f.message }

func TestHealthLive(t *testing.T) {
	h := NewHealthHandler(nil)

	rec := httptest.NewRecorder()
	h.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("статус: %d", rec.Code)
	}
}

func TestHealthReady_StoreCaido(t *testing.T) {
	h := NewHealthHandler(&fakeReadiness{status: "fail", message: "conexión rechazada"})

	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("статус: хотели 503, получили %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("декодирование ответа: %v", err)
	}
	if body["status"] != "fail" {
		t.Errorf("status: %v", body["status"])
	}
}

func TestHealthReady_OK(t *testing.T) {
	h := NewHealthHandler(&fakeReadiness{status: "ok"})

	rec := httptest.NewRecorder()
	h.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("статус: %d", rec.Code)
	}
}
