// Пакет supabase — HTTP-клиенты к Supabase: PostgREST (табличное хранилище
// строк) и Storage API (бинарные вложения).
// Операции PostgREST: Insert (POST /rest/v1/{table} с return=representation),
// Select (GET /rest/v1/{table} с фильтрами eq, сортировкой и limit).
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Config — параметры подключения к Supabase.
type Config struct {
	// BaseURL — базовый URL проекта (без trailing slash)
	BaseURL string
	// APIKey — service role или anon ключ
	APIKey string
	// Timeout — таймаут HTTP-запросов
	Timeout time.Duration
}

// Client — HTTP-клиент к Supabase PostgREST.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// New создаёт клиент PostgREST.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "supabase_client")),
	}
}

// Filter — фильтр равенства колонки значению (eq.<value> в PostgREST).
type Filter struct {
	Column string
	Value  string
}

// Query — параметры выборки Select.
type Query struct {
	// Filters — фильтры равенства, объединяются по AND
	Filters []Filter
	// OrderBy — колонка сортировки (пустая строка — порядок хранилища)
	OrderBy string
	// Desc — сортировка по убыванию
	Desc bool
	// Limit — максимум строк (<=0 — без ограничения)
	Limit int
}

// Insert вставляет строки в таблицу одним запросом и декодирует вставленные
// строки в out (срез). PostgREST с Prefer: return=representation возвращает
// вставленные строки массивом; вставка нескольких строк атомарна на стороне
// хранилища.
func (c *Client) Insert(ctx context.Context, table string, rows any, out any) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("сериализация строк для %s: %w", table, err)
	}

	reqURL := c.restURL(table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("создание запроса Insert: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("insert в %s: %w", table, err)
	}

	if err := decodeResponse(resp, out); err != nil {
		return fmt.Errorf("insert в %s: %w", table, err)
	}

	return nil
}

// Select выполняет выборку из таблицы с фильтрами, сортировкой и limit.
// out — указатель на срез записей.
func (c *Client) Select(ctx context.Context, table string, q Query, out any) error {
	params := url.Values{}
	params.Set("select", "*")
	for _, f := range q.Filters {
		params.Set(f.Column, "eq."+f.Value)
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		params.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	reqURL := c.restURL(table) + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("создание запроса Select: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("select из %s: %w", table, err)
	}

	if err := decodeResponse(resp, out); err != nil {
		return fmt.Errorf("select из %s: %w", table, err)
	}

	return nil
}

// CheckReady проверяет доступность PostgREST endpoint.
// Реализует handlers.ReadinessChecker.
func (c *Client) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rest/v1/", nil)
	if err != nil {
		return "fail", fmt.Sprintf("Создание запроса не удалось: %v", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "fail", fmt.Sprintf("Supabase недоступен: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return "fail", fmt.Sprintf("Supabase вернул статус %d", resp.StatusCode)
	}

	return "ok", "Supabase доступен"
}

// restURL возвращает URL таблицы PostgREST.
func (c *Client) restURL(table string) string {
	return fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
}

// setHeaders добавляет заголовки авторизации Supabase.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

// decodeResponse проверяет статус и декодирует JSON ответ в target.
// Ответ хранилища с ошибкой передаётся вызывающему дословно.
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("статус %d: %s", resp.StatusCode, string(body))
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("декодирование ответа: %w", err)
		}
	}

	return nil
}
