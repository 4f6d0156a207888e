// storage.go — клиент Supabase Storage API для бинарных вложений.
// Операции: Upload (POST /storage/v1/object/{bucket}/{path}),
// PublicURL (детерминированный публичный URL объекта).
package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Storage — HTTP-клиент Supabase Storage.
type Storage struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewStorage создаёт клиент Storage API.
func NewStorage(cfg Config, logger *slog.Logger) *Storage {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Storage{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "supabase_storage")),
	}
}

// Upload загружает объект в bucket по заданному пути.
// Любой не-2xx статус — ошибка с телом ответа хранилища.
func (s *Storage) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	reqURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, bucket, escapePath(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("создание запроса Upload: %w", err)
	}
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("загрузка %s/%s: %w", bucket, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("загрузка %s/%s: статус %d: %s", bucket, path, resp.StatusCode, string(body))
	}

	return nil
}

// PublicURL возвращает публичный URL объекта.
// Для приватных bucket вместо него нужны подписанные URL; bucket вложений
// в этом сервисе публичный.
func (s *Storage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, escapePath(path))
}

// escapePath экранирует сегменты пути объекта, сохраняя разделители.
// Имена файлов приходят от клиента и могут содержать пробелы и не-ASCII.
func escapePath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
