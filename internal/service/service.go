// service содержит бизнес-логику session-service: ротацию refresh-токенов,
// выпуск пары токенов для живого аккаунта и проверку access-токенов.
//
// Основные аспекты:
//   - Service не хранит состояние запроса и не держит изменяемых общих данных;
//     экземпляр безопасен для конкурентного использования из разных горутин
//     при условии, что переданное хранилище потокобезопасно;
//   - токены нигде не сохраняются: действительность доказывается подписью,
//     сроком и проверкой активности аккаунта на каждом обновлении;
//   - ошибки возвращаются обёрнутыми и далее маппятся HTTP-слоем
//     на статусы (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"
	"time"

	"github.com/pribylovaa/session-service/internal/config"
	"github.com/pribylovaa/session-service/internal/storage"
	"github.com/pribylovaa/session-service/internal/token"
)

var (
	// ErrMissingToken — refresh-токен не найден ни в cookie, ни в теле запроса.
	// HTTP 400.
	ErrMissingToken = errors.New("refresh token not found")

	// ErrInvalidToken — подпись неверна или токен другого вида. HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired — срок действия токена истёк. HTTP 401.
	ErrTokenExpired = errors.New("token expired")

	// ErrAccountInactive — аккаунт не найден или отключён. HTTP 401.
	ErrAccountInactive = errors.New("account not found or inactive")
)

// Service описывает бизнес-логику сессий.
type Service struct {
	storage storage.AccountStorage
	codec   *token.Codec
	cfg     config.AuthConfig
	now     func() time.Time
}

// New создаёт новый экземпляр Service.
func New(storage storage.AccountStorage, codec *token.Codec, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		codec:   codec,
		cfg:     cfg,
		now:     time.Now,
	}
}

// refreshTTL выбирает срок refresh-токена по флагу "запомнить меня".
func (s *Service) refreshTTL(rememberMe bool) time.Duration {
	if rememberMe {
		return s.cfg.RememberTokenTTL
	}

	return s.cfg.RefreshTokenTTL
}
