// Пакет service — бизнес-логика интейка: фичажи, отпуска, больничные.
// errors.go — структурированная ошибка сервисного слоя с HTTP-кодом.
package service

import (
	"fmt"
	"net/http"

	apierrors "github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/api/errors"
)

// Error — ошибка сервисного слоя с HTTP-кодом.
// Обработчики транслируют её в ответ через errors.WriteError без
// интерпретации. Любая ошибка терминальна для запроса: повторов нет,
// клиент отправляет запрос заново.
type Error struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// validationError — некорректные входные данные; хранилище не вызывалось.
func validationError(format string, args ...any) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Code:       apierrors.CodeValidationError,
		Message:    fmt.Sprintf(format, args...),
	}
}

// storeError — табличное хранилище вернуло ошибку или пустой результат.
// Деталь ошибки хранилища передаётся клиенту.
func storeError(err error) *Error {
	return &Error{
		StatusCode: http.StatusBadGateway,
		Code:       apierrors.CodeStoreError,
		Message:    err.Error(),
	}
}

// uploadError — object store не принял вложение; запись не создаётся.
func uploadError(err error) *Error {
	return &Error{
		StatusCode: http.StatusBadGateway,
		Code:       apierrors.CodeUploadError,
		Message:    err.Error(),
	}
}

// errPartialInsert — хранилище вернуло меньше строк, чем было отправлено.
func errPartialInsert(want, got int) error {
	return fmt.Errorf("el almacén insertó %d de %d filas", got, want)
}

// optional преобразует пустую строку в nil для опциональных колонок.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
