// stores.go — интерфейсы внешних хранилищ.
// Реализуются клиентами пакета supabase; в тестах подменяются фейками.
package service

import (
	"context"

	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/supabase"
)

// RecordStore — внешнее табличное хранилище строк.
// Insert вставляет строки одним запросом (атомарно на стороне хранилища)
// и декодирует вставленные строки в out; Select выполняет выборку.
type RecordStore interface {
	Insert(ctx context.Context, table string, rows any, out any) error
	Select(ctx context.Context, table string, q supabase.Query, out any) error
}

// ObjectStore — внешнее хранилище бинарных вложений.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error
	PublicURL(bucket, path string) string
}
