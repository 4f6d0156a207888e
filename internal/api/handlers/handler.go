// Пакет handlers — HTTP-обработчики интейка.
// Обработчики тонкие: разбор формы, вызов сервиса, сериализация ответа.
// Вся бизнес-логика и валидация живут в сервисном слое.
package handlers

import (
	"encoding/json"
	"net/http"

	apierrors "github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/api/errors"
	"github.com/luciagarciapenades-ctrl/fichajes-logefrut-backend/internal/service"
)

// writeJSON записывает успешный JSON-ответ.
func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// writeServiceError транслирует ошибку сервисного слоя в HTTP-ответ
// стандартного формата без интерпретации.
func writeServiceError(w http.ResponseWriter, serr *service.Error) {
	apierrors.WriteError(w, serr.StatusCode, serr.Code, serr.Message)
}
