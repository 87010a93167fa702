package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/session-service/internal/http/response"
	"github.com/pribylovaa/session-service/internal/models"
	"github.com/pribylovaa/session-service/internal/pkg/log"
	"github.com/pribylovaa/session-service/internal/service"
)

// AccessValidator проверяет access-токен.
type AccessValidator interface {
	ValidateAccess(ctx context.Context, accessToken string) (*models.TokenClaims, error)
}

type claimsKey struct{}

// RequireAccess пропускает запрос дальше, только если cookie с access-токеном
// проходит проверку. Claims кладутся в контекст (см. ClaimsFrom).
// Отсутствующая cookie — 401.
func RequireAccess(v AccessValidator, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var raw string
			if c, err := r.Cookie(cookieName); err == nil {
				raw = c.Value
			}

			claims, err := v.ValidateAccess(r.Context(), raw)
			if err != nil {
				if errors.Is(err, service.ErrMissingToken) {
					response.ErrorStatus(w, http.StatusUnauthorized, "Authentication required")
					return
				}

				status, _ := response.FromError(err)
				if status == http.StatusInternalServerError {
					log.From(r.Context()).Error("access_check_failed", slog.String("err", err.Error()))
				}
				response.Error(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			ctx = log.With(ctx, slog.String("account_id", claims.SubjectID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom возвращает claims access-токена, положенные RequireAccess.
func ClaimsFrom(ctx context.Context) (*models.TokenClaims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*models.TokenClaims)
	return c, ok && c != nil
}
