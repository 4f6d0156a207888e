// Пакет config — загрузка и валидация конфигурации сервиса фичажей
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации сервиса.
// Передаётся конструкторам явно; глобального состояния нет, что позволяет
// подменять хранилища фейками в тестах.
type Config struct {
	// Порт HTTP-сервера
	Port int
	// Базовый URL проекта Supabase (https://<ref>.supabase.co)
	SupabaseURL string
	// Ключ Supabase: service role или anon
	SupabaseKey string
	// Имя bucket для вложений больничных
	Bucket string
	// Таймаут HTTP-запросов к Supabase
	HTTPTimeout time.Duration
	// Максимальный суммарный размер multipart-загрузки в байтах
	MaxUploadSize int64
	// Разрешённые CORS origins
	CORSOrigins []string
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration
	// Имя группы в метриках topologymetrics
	DephealthGroup string
	// Имя зависимости (Supabase) в метриках topologymetrics
	DephealthDepName string
	// Имя владельца пода для метки name в topologymetrics
	DephealthName string

	// SMTP-уведомления о новых отпусках/больничных.
	// Отключены, если MailHost пустой.
	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string
	MailTo   []string
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}

	// FB_PORT — порт HTTP-сервера (по умолчанию 8080)
	port, err := getEnvInt("FB_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("FB_PORT: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("FB_PORT: значение %d вне допустимого диапазона 1-65535", port)
	}
	cfg.Port = port

	// SUPABASE_URL — обязательный
	cfg.SupabaseURL, err = getEnvRequired("SUPABASE_URL")
	if err != nil {
		return nil, err
	}
	cfg.SupabaseURL = strings.TrimRight(cfg.SupabaseURL, "/")

	// SUPABASE_SERVICE_ROLE_KEY или SUPABASE_KEY — обязателен хотя бы один,
	// service role имеет приоритет
	cfg.SupabaseKey = getEnvDefault("SUPABASE_SERVICE_ROLE_KEY", "")
	if cfg.SupabaseKey == "" {
		cfg.SupabaseKey = getEnvDefault("SUPABASE_KEY", "")
	}
	if cfg.SupabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY / SUPABASE_KEY: обязательная переменная окружения не задана")
	}

	// FB_BUCKET — bucket вложений (по умолчанию adjuntos)
	cfg.Bucket = getEnvDefault("FB_BUCKET", "adjuntos")

	// FB_HTTP_TIMEOUT — таймаут запросов к Supabase (по умолчанию 30s).
	// Ограничивает время ожидания хранилища: зависший запрос завершается
	// ошибкой хранилища, а не висит бесконечно.
	cfg.HTTPTimeout, err = getEnvDuration("FB_HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FB_HTTP_TIMEOUT: %w", err)
	}

	// FB_MAX_UPLOAD_SIZE — лимит multipart-загрузки (по умолчанию 10 MB)
	maxUpload, err := getEnvInt64("FB_MAX_UPLOAD_SIZE", 10485760)
	if err != nil {
		return nil, fmt.Errorf("FB_MAX_UPLOAD_SIZE: %w", err)
	}
	if maxUpload <= 0 {
		return nil, fmt.Errorf("FB_MAX_UPLOAD_SIZE: значение должно быть положительным")
	}
	cfg.MaxUploadSize = maxUpload

	// FB_CORS_ORIGINS — разрешённые origins через запятую (по умолчанию *)
	cfg.CORSOrigins = splitList(getEnvDefault("FB_CORS_ORIGINS", "*"), ",")

	// FB_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("FB_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("FB_LOG_LEVEL: %w", err)
	}

	// FB_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("FB_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("FB_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// FB_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("FB_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FB_SHUTDOWN_TIMEOUT: %w", err)
	}

	// FB_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("FB_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FB_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// FB_DEPHEALTH_GROUP — имя группы в метриках topologymetrics
	cfg.DephealthGroup = getEnvDefault("FB_DEPHEALTH_GROUP", "fichajes-backend")

	// FB_DEPHEALTH_DEP_NAME — имя зависимости в метриках topologymetrics
	cfg.DephealthDepName = getEnvDefault("FB_DEPHEALTH_DEP_NAME", "supabase")

	// DEPHEALTH_NAME — имя владельца пода для метки name в topologymetrics
	cfg.DephealthName = getEnvDefault("DEPHEALTH_NAME", "")

	// FB_MAIL_* — SMTP-уведомления (опционально, включаются по FB_MAIL_HOST)
	cfg.MailHost = getEnvDefault("FB_MAIL_HOST", "")
	if cfg.MailHost != "" {
		cfg.MailPort, err = getEnvInt("FB_MAIL_PORT", 587)
		if err != nil {
			return nil, fmt.Errorf("FB_MAIL_PORT: %w", err)
		}
		cfg.MailUser = getEnvDefault("FB_MAIL_USER", "")
		cfg.MailPass = getEnvDefault("FB_MAIL_PASS", "")
		cfg.MailFrom = getEnvDefault("FB_MAIL_FROM", cfg.MailUser)
		cfg.MailTo = splitList(getEnvDefault("FB_MAIL_TO", ""), ";")
		if len(cfg.MailTo) == 0 {
			return nil, fmt.Errorf("FB_MAIL_TO: обязателен при включённых уведомлениях (FB_MAIL_HOST)")
		}
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 значение переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h)", val)
	}
	return d, nil
}

// splitList разбивает строку по разделителю, отбрасывая пустые элементы.
func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
