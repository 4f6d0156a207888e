// adjuntos.go — загрузка вложений больничных в object store.
// Пути объектов детерминированы: владелец + момент UTC + исходное имя,
// чтобы параллельные загрузки одного пользователя не коллидировали.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/api/middleware"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/clock"
)

// Adjunto — один файл, присланный с уведомлением о больничном.
type Adjunto struct {
	Nombre      string
	ContentType string
	Datos       []byte
}

// AdjuntosService — сервис загрузки вложений.
type AdjuntosService struct {
	objects ObjectStore
	bucket  string
	clk     *clock.Clock
	logger  *slog.Logger
}

// NewAdjuntosService создаёт сервис вложений.
func NewAdjuntosService(objects ObjectStore, bucket string, clk *clock.Clock, logger *slog.Logger) *AdjuntosService {
	return &AdjuntosService{
		objects: objects,
		bucket:  bucket,
		clk:     clk,
		logger:  logger.With(slog.String("component", "adjuntos_service")),
	}
}

// SubirTodo загружает все файлы по порядку и возвращает публичные URL
// в порядке подачи. Первая неудачная загрузка прерывает остальные и
// возвращает ошибку: частичный список URL не отдаётся никогда —
// целостность записи о больничном важнее best-effort сохранения файлов.
// Уже загруженные объекты остаются в хранилище как сироты и не удаляются.
func (s *AdjuntosService) SubirTodo(ctx context.Context, ownerID string, archivos []Adjunto) ([]string, *Error) {
	urls := make([]string, 0, len(archivos))

	for _, a := range archivos {
		_, utc := s.clk.NowPair()
		path := fmt.Sprintf("bajas/%s/%s_%s", ownerID, utc.Format("20060102_150405"), a.Nombre)

		if err := s.objects.Upload(ctx, s.bucket, path, a.Datos, a.ContentType); err != nil {
			middleware.AttachmentsTotal.WithLabelValues("error").Inc()
			s.logger.Error("Загрузка вложения не удалась",
				slog.String("owner_id", ownerID),
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return nil, uploadError(err)
		}

		middleware.AttachmentsTotal.WithLabelValues("success").Inc()
		urls = append(urls, s.objects.PublicURL(s.bucket, path))
	}

	return urls, nil
}
