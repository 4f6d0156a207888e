// Точка входа сервиса интейка фичажей и отсутствий.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/api/handlers"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/clock"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/config"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/server"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/service"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/supabase"
)

func main() {
	// .env удобен в разработке; в кластере переменные задаёт окружение
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Файл .env не найден, используются переменные окружения")
	}

	// Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Сервис фичажей запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("supabase_url", cfg.SupabaseURL),
		slog.String("bucket", cfg.Bucket),
	)

	// --- Инициализация компонентов ---

	// 1. Клиенты Supabase: табличное хранилище и object store
	supaCfg := supabase.Config{
		BaseURL: cfg.SupabaseURL,
		APIKey:  cfg.SupabaseKey,
		Timeout: cfg.HTTPTimeout,
	}
	store := supabase.New(supaCfg, logger)
	objects := supabase.NewStorage(supaCfg, logger)

	// 2. Часы — источник пар (local, utc)
	clk := clock.New()

	// 3. Уведомления по почте (опционально)
	var notificador *service.Notificador
	if cfg.MailHost != "" {
		notificador = service.NewNotificador(
			cfg.MailHost, cfg.MailPort,
			cfg.MailUser, cfg.MailPass,
			cfg.MailFrom, cfg.MailTo,
			logger,
		)
		logger.Info("Почтовые уведомления включены",
			slog.String("host", cfg.MailHost),
			slog.Int("destinatarios", len(cfg.MailTo)),
		)
	}

	// 4. Сервисы
	fichajesSvc := service.NewFichajesService(store, clk, logger)
	adjuntosSvc := service.NewAdjuntosService(objects, cfg.Bucket, clk, logger)
	ausenciasSvc := service.NewAusenciasService(store, adjuntosSvc, notificador, logger)

	// 5. topologymetrics — мониторинг Supabase
	ctx := context.Background()

	dephealthSvc, dephealthErr := service.NewDephealthService(
		cfg.DephealthName,
		cfg.DephealthGroup,
		cfg.DephealthDepName,
		cfg.SupabaseURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("dep_name", cfg.DephealthDepName),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 6. Handlers
	h := server.Handlers{
		Fichajes:  handlers.NewFichajesHandler(fichajesSvc, logger),
		Ausencias: handlers.NewAusenciasHandler(ausenciasSvc, cfg.MaxUploadSize, logger),
		Health:    handlers.NewHealthHandler(store),
	}

	// 7. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, h)

	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// --- Graceful shutdown фоновых процессов ---
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Сервис фичажей остановлен")
}
