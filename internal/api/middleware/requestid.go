// requestid.go — middleware назначения идентификатора запроса.
// ID возвращается клиенту в заголовке X-Request-Id и попадает в логи.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// requestIDKey — ключ контекста для request_id.
type requestIDKey struct{}

// RequestID возвращает middleware, генерирующий uuid для каждого запроса.
// Если клиент прислал X-Request-Id — используется его значение.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if id == "" {
				id = uuid.New().String()
			}

			w.Header().Set("X-Request-Id", id)
			ctx := context.WithValue(r.Context(), requestIDKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext возвращает request_id из контекста или пустую строку.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}
