// Пакет errors — конструкторы стандартных ошибок HTTP API.
// Единый формат: {"error": {"code": "...", "message": "..."}}.
// Все HTTP-ответы с ошибками должны использовать WriteError.
package errors //nolint:revive // конфликт имени со stdlib осознанный, пакет используется с алиасом apierrors

import (
	"encoding/json"
	"net/http"
)

// Коды ошибок интейка.
const (
	// CodeValidationError — некорректные входные данные; хранилище не вызывалось.
	CodeValidationError = "VALIDATION_ERROR"
	// CodeUploadError — загрузка вложения в object store не удалась; запись не создана.
	CodeUploadError = "UPLOAD_ERROR"
	// CodeStoreError — табличное хранилище вернуло ошибку или пустой результат.
	CodeStoreError = "STORE_ERROR"
	// CodeNotFound — ресурс не найден.
	CodeNotFound = "NOT_FOUND"
	// CodeInternalError — внутренняя ошибка сервиса.
	CodeInternalError = "INTERNAL_ERROR"
)

// errorBody — структура тела ответа ошибки.
type errorBody struct {
	Error errorDetail `json:"error"`
}

// errorDetail — детали ошибки.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError записывает ответ ошибки в стандартном формате.
// statusCode — HTTP статус-код, code — машиночитаемый код, message — описание.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// UploadError — 502 object store не принял вложение.
func UploadError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, CodeUploadError, message)
}

// StoreError — 502 табличное хранилище сообщило об ошибке.
func StoreError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, CodeStoreError, message)
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}
