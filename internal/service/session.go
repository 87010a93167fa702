package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/session-service/internal/models"
	"github.com/pribylovaa/session-service/internal/pkg/log"
	"github.com/pribylovaa/session-service/internal/pkg/redact"
	"github.com/pribylovaa/session-service/internal/storage"
	"github.com/pribylovaa/session-service/internal/token"
)

// RefreshInput — всё, что контроллер ротации берёт из запроса.
//   - CookieToken — значение cookie admin_refresh_token (приоритетный источник);
//   - BodyToken — поле refreshToken из JSON-тела (используется, только если cookie пуста);
//   - RememberMe — cookie admin_remember == "true"; влияет лишь на срок нового refresh-токена.
type RefreshInput struct {
	CookieToken string
	BodyToken   string
	RememberMe  bool
}

// Session — результат успешного выпуска пары: актуальные данные аккаунта и токены.
type Session struct {
	Account models.Account
	Pair    models.TokenPair
}

// Refresh проводит запрос через шаги ротации:
// извлечение токена -> проверка токена -> проверка аккаунта -> выпуск новой пары.
// Любая ошибка терминальна; при ошибке пара не выпускается.
func (s *Service) Refresh(ctx context.Context, in RefreshInput) (*Session, error) {
	const op = "service.session.Refresh"

	lg := log.From(ctx)

	raw := extractRefreshToken(in)
	if raw == "" {
		lg.Info("refresh_token_missing", slog.String("op", op))
		return nil, fmt.Errorf("%s: %w", op, ErrMissingToken)
	}

	claims, err := s.codec.VerifyRefreshToken(raw)
	if err != nil {
		mapped := mapCodecError(err)
		lg.Warn("refresh_token_rejected",
			slog.String("op", op),
			slog.String("token", redact.Token(raw)),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	// Повторная явная проверка exp поверх проверки в Codec.
	if token.Expired(claims.ExpiresAt, s.now(), s.cfg.Leeway) {
		lg.Warn("refresh_token_expired",
			slog.String("op", op),
			slog.String("account_id", claims.SubjectID),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	ctx = log.With(ctx, slog.String("account_id", claims.SubjectID))

	sess, err := s.issue(ctx, claims.SubjectID, in.RememberMe)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.From(ctx).Info("session_rotated",
		slog.String("op", op),
		slog.String("username", redact.Username(sess.Account.Username)),
		slog.String("role", string(sess.Account.Role)),
		slog.Bool("remember", in.RememberMe),
	)

	return sess, nil
}

// IssueSession выпускает пару токенов для живого аккаунта без предъявления refresh-токена.
// Используется после успешной аутентификации и CLI выпуска токенов.
func (s *Service) IssueSession(ctx context.Context, accountID string, rememberMe bool) (*Session, error) {
	const op = "service.session.IssueSession"

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrAccountInactive)
	}

	ctx = log.With(ctx, slog.String("account_id", accountID))

	sess, err := s.issue(ctx, accountID, rememberMe)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sess, nil
}

// ValidateAccess проверяет access-токен и возвращает его claims.
// Аккаунт здесь не перечитывается: access-токен короткоживущий.
func (s *Service) ValidateAccess(ctx context.Context, accessToken string) (*models.TokenClaims, error) {
	const op = "service.session.ValidateAccess"

	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingToken)
	}

	claims, err := s.codec.VerifyAccessToken(accessToken)
	if err != nil {
		log.From(ctx).Debug("access_token_rejected",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, mapCodecError(err))
	}

	return claims, nil
}

// issue подтверждает, что аккаунт существует и активен, и выпускает пару
// по его текущим username/role (а не по значениям из старого токена),
// чтобы смена роли вступала в силу на ближайшем обновлении.
func (s *Service) issue(ctx context.Context, accountID string, rememberMe bool) (*Session, error) {
	const op = "service.session.issue"

	lg := log.From(ctx)

	acc, err := s.storage.AccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("account_not_found", slog.String("op", op))
			return nil, fmt.Errorf("%s: %w", op, ErrAccountInactive)
		}

		lg.Error("account_lookup_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !acc.IsActive {
		lg.Warn("account_inactive", slog.String("op", op))
		return nil, fmt.Errorf("%s: %w", op, ErrAccountInactive)
	}

	pair, err := s.codec.CreateTokenPair(accountID, acc.Username, acc.Role, s.refreshTTL(rememberMe))
	if err != nil {
		if errors.Is(err, token.ErrInvalidClaims) {
			// Роль в хранилище вне перечня admin/student — сессию не выдаём.
			lg.Warn("account_role_unknown",
				slog.String("op", op),
				slog.String("role", string(acc.Role)),
			)
			return nil, fmt.Errorf("%s: %w", op, ErrAccountInactive)
		}

		lg.Error("token_pair_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	account := *acc
	account.ID = accountID

	return &Session{Account: account, Pair: *pair}, nil
}

// extractRefreshToken берёт токен из cookie, а при её отсутствии — из тела.
// Других источников нет.
func extractRefreshToken(in RefreshInput) string {
	if v := strings.TrimSpace(in.CookieToken); v != "" {
		return v
	}

	return strings.TrimSpace(in.BodyToken)
}

// mapCodecError переводит ошибки Codec в ошибки сервиса.
func mapCodecError(err error) error {
	switch {
	case errors.Is(err, token.ErrExpired):
		return ErrTokenExpired
	default:
		// ErrInvalidSignature, ErrWrongKind и всё неожиданное — недействительный токен.
		return ErrInvalidToken
	}
}
