package models

import "time"

// TokenKind различает access- и refresh-токены одной подписи.
// Без него access-токен можно было бы предъявить как refresh.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// TokenClaims — подписанное содержимое токена.
//
// Описание:
//   - SubjectID — идентификатор аккаунта (непрозрачная строка);
//   - ID — уникальный jti, различает токены, выпущенные в одну секунду;
//   - IssuedAt/ExpiresAt — секундная точность (как в JWT NumericDate).
type TokenClaims struct {
	ID        string
	SubjectID string
	Username  string
	Role      Role
	Kind      TokenKind
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair — пара токенов, выдаваемая при входе и на каждом обновлении.
// На сервере не хранится.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
	// AccessTTL/RefreshTTL — сроки жизни, из них считается Max-Age cookie.
	// RefreshTTL выбирается вызывающим (7 или 30 дней).
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}
