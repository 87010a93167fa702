package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/session-service/internal/http/middleware"
	"github.com/pribylovaa/session-service/internal/http/response"
	"github.com/pribylovaa/session-service/internal/metrics"
	"github.com/pribylovaa/session-service/internal/pkg/log"
	"github.com/pribylovaa/session-service/internal/service"
)

const (
	msgRefreshed = "Token refreshed successfully"
	msgLoggedOut = "Logged out successfully"
	msgSession   = "Session is active"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshData struct {
	User userView `json:"user"`
}

type sessionData struct {
	User      userView  `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Refresh — POST /auth/refresh.
// Токен берётся из cookie admin_refresh_token, иначе из поля refreshToken тела.
// При успехе выставляются обе cookie и возвращаются данные пользователя;
// сами токены в тело не попадают. При ошибке cookie не пишутся.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	// Тело читаем всегда: превышение лимита должно дать 413 даже при наличии cookie.
	var body refreshRequest
	if err := decodeLenient(r, &body); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.refreshFailed(w, r, response.ErrRequestTooLarge, start)
			return
		}

		// Битое тело равносильно отсутствию токена в теле.
		log.From(ctx).Debug("refresh_body_ignored", slog.String("err", err.Error()))
		body = refreshRequest{}
	}

	sess, err := h.svc.Refresh(ctx, service.RefreshInput{
		CookieToken: cookieValue(r, h.cookies.Refresh),
		BodyToken:   body.RefreshToken,
		RememberMe:  cookieValue(r, h.cookies.Remember) == "true",
	})
	if err != nil {
		h.refreshFailed(w, r, err, start)
		return
	}

	h.setCookie(w, h.cookies.Access, sess.Pair.AccessToken, int(sess.Pair.AccessTTL.Seconds()))
	h.setCookie(w, h.cookies.Refresh, sess.Pair.RefreshToken, int(sess.Pair.RefreshTTL.Seconds()))

	h.metrics.Refresh(metrics.OutcomeRotated, time.Since(start).Seconds())

	response.Success(w, msgRefreshed, refreshData{User: userView{
		ID:       sess.Account.ID,
		Username: sess.Account.Username,
		Role:     sess.Account.Role,
	}})
}

// Logout — POST /auth/logout. Стирает обе cookie сессии; идемпотентен.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.setCookie(w, h.cookies.Access, "", -1)
	h.setCookie(w, h.cookies.Refresh, "", -1)

	h.metrics.Logout()
	log.From(r.Context()).Info("session_cleared")

	response.Success(w, msgLoggedOut, nil)
}

// Session — GET /auth/session. Требует middleware.RequireAccess.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		response.ErrorStatus(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	response.Success(w, msgSession, sessionData{
		User: userView{
			ID:       claims.SubjectID,
			Username: claims.Username,
			Role:     claims.Role,
		},
		ExpiresAt: claims.ExpiresAt,
	})
}

func (h *Handlers) refreshFailed(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	status, _ := response.FromError(err)
	if status == http.StatusInternalServerError {
		log.From(r.Context()).Error("refresh_failed", slog.String("err", err.Error()))
	}

	h.metrics.Refresh(outcome(err), time.Since(start).Seconds())
	response.Error(w, err)
}

// outcome переводит ошибку обновления в метку метрики.
func outcome(err error) string {
	var maxBytes *http.MaxBytesError

	switch {
	case errors.Is(err, response.ErrRequestTooLarge), errors.As(err, &maxBytes):
		return metrics.OutcomeTooLarge
	case errors.Is(err, service.ErrMissingToken):
		return metrics.OutcomeMissing
	case errors.Is(err, service.ErrInvalidToken):
		return metrics.OutcomeInvalid
	case errors.Is(err, service.ErrTokenExpired):
		return metrics.OutcomeExpired
	case errors.Is(err, service.ErrAccountInactive):
		return metrics.OutcomeInactive
	default:
		return metrics.OutcomeError
	}
}
