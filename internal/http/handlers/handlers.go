// handlers связывает HTTP-запросы с сервисным слоем: читает cookie и тело,
// пишет cookie сессии и единый JSON-конверт ответа.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/pribylovaa/session-service/internal/config"
	"github.com/pribylovaa/session-service/internal/metrics"
	"github.com/pribylovaa/session-service/internal/models"
	"github.com/pribylovaa/session-service/internal/service"
)

// SessionService — операции сервисного слоя, нужные обработчикам.
type SessionService interface {
	Refresh(ctx context.Context, in service.RefreshInput) (*service.Session, error)
	ValidateAccess(ctx context.Context, accessToken string) (*models.TokenClaims, error)
}

// Options — параметры обработчиков.
type Options struct {
	Cookies config.CookieConfig
	// Secure выставляет флаг Secure у cookie (prod).
	Secure  bool
	Metrics *metrics.Metrics
}

// Handlers агрегирует зависимости обработчиков.
type Handlers struct {
	svc     SessionService
	cookies config.CookieConfig
	secure  bool
	metrics *metrics.Metrics
}

// New создаёт Handlers.
func New(svc SessionService, opts Options) *Handlers {
	return &Handlers{
		svc:     svc,
		cookies: opts.Cookies,
		secure:  opts.Secure,
		metrics: opts.Metrics,
	}
}

// userView — публичное представление аккаунта в ответах.
type userView struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// decodeLenient разбирает JSON-тело, не запрещая неизвестных полей.
// Пустое тело — не ошибка. Остаток тела после первого значения дочитывается,
// чтобы лимит размера (http.MaxBytesReader) срабатывал и на хвосте;
// превышение возвращается как *http.MaxBytesError.
func decodeLenient(r *http.Request, value any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(value)
	if errors.Is(err, io.EOF) {
		err = nil
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}

	if _, drainErr := io.Copy(io.Discard, r.Body); errors.As(drainErr, &maxBytes) {
		return drainErr
	}

	return err
}

// cookieValue возвращает значение cookie или "".
func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}

	return c.Value
}

// setCookie пишет HttpOnly cookie сессии на весь сайт.
// maxAge < 0 удаляет cookie.
func (h *Handlers) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
	})
}
