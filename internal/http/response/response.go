// response стандартизирует JSON-ответы HTTP-слоя session-service.
// Любой ответ (успех или ошибка) имеет единый конверт:
//
//	{success, message, data?, timestamp, version}
//
// Маппинг ошибок на HTTP-статусы собран в одном месте (FromError):
//   - ErrRequestTooLarge / *http.MaxBytesError -> 413;
//   - service.ErrMissingToken -> 400;
//   - service.ErrInvalidToken, ErrTokenExpired, ErrAccountInactive -> 401;
//   - ErrRateLimited -> 429;
//   - прочее -> 500 без утечки деталей.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pribylovaa/session-service/internal/service"
)

// Version — версия формата ответа API.
const Version = "1.0.0"

var (
	// ErrRequestTooLarge — тело запроса превышает допустимый размер.
	ErrRequestTooLarge = errors.New("request entity too large")

	// ErrRateLimited — клиент превысил лимит обновлений.
	ErrRateLimited = errors.New("too many requests")
)

// Envelope — корневой объект любого ответа.
type Envelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// now — источник времени для поля timestamp (подменяется в тестах).
var now = time.Now

// FromError возвращает HTTP-статус и безопасное сообщение для ошибки.
// err == nil считается программной ошибкой вызова и даёт 500.
func FromError(err error) (int, string) {
	var maxBytes *http.MaxBytesError

	switch {
	case err == nil:
		return http.StatusInternalServerError, "Internal server error"
	case errors.Is(err, ErrRequestTooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge, "Request entity too large"
	case errors.Is(err, service.ErrMissingToken):
		return http.StatusBadRequest, "Refresh token not found"
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusUnauthorized, "Token expired"
	case errors.Is(err, service.ErrAccountInactive):
		return http.StatusUnauthorized, "User not found or inactive"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// Success пишет 200-конверт с данными.
func Success(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
		Version:   Version,
	})
}

// Error пишет конверт ошибки со статусом из FromError.
func Error(w http.ResponseWriter, err error) {
	status, msg := FromError(err)
	ErrorStatus(w, status, msg)
}

// ErrorStatus пишет конверт ошибки с явным статусом и сообщением.
func ErrorStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{
		Success:   false,
		Message:   message,
		Timestamp: timestamp(),
		Version:   Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// timestamp — ISO8601 в UTC с миллисекундами.
func timestamp() string {
	return now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
