// token подписывает и проверяет компактные JWT (HS256) сессии администратора.
//
// Основные аспекты:
//   - Codec — единственный источник истины о подлинности и сроке токена;
//   - каждый токен несёт дискриминатор kind (access/refresh), и верификаторы
//     отвергают токены чужого вида;
//   - секрет передаётся в New и далее только читается, поэтому Codec
//     безопасен для конкурентного использования.
package token

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/session-service/internal/models"
)

var (
	// ErrInvalidSignature — токен не подлинный: битый формат, чужой алгоритм/секрет/issuer
	// или обязательные поля отсутствуют.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrExpired — exp меньше текущего времени (с учётом leeway).
	ErrExpired = errors.New("token expired")

	// ErrWrongKind — токен подлинный, но другого вида (access вместо refresh и наоборот).
	ErrWrongKind = errors.New("wrong token kind")

	// ErrInvalidClaims — попытка выпустить токен с некорректными данными.
	ErrInvalidClaims = errors.New("invalid token claims")
)

// Config — параметры Codec.
type Config struct {
	Secret    string
	AccessTTL time.Duration
	Issuer    string
	// Leeway — допуск при сравнении exp; 0 означает точное сравнение.
	Leeway time.Duration
}

// Option настраивает Codec.
type Option func(*Codec)

// WithClock подменяет источник текущего времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// Codec выпускает и проверяет токены.
type Codec struct {
	secret []byte
	cfg    Config
	now    func() time.Time
}

// claims — JSON-представление models.TokenClaims внутри JWT.
type claims struct {
	Username string           `json:"username"`
	Role     models.Role      `json:"role"`
	Kind     models.TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// New создаёт Codec. Пустой секрет и неположительный AccessTTL — ошибка конфигурации.
func New(cfg Config, opts ...Option) (*Codec, error) {
	const op = "token.New"

	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("%s: empty secret", op)
	}

	if cfg.AccessTTL <= 0 {
		return nil, fmt.Errorf("%s: access ttl must be positive", op)
	}

	if cfg.Leeway < 0 {
		return nil, fmt.Errorf("%s: negative leeway", op)
	}

	c := &Codec{
		secret: []byte(cfg.Secret),
		cfg:    cfg,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// AccessTTL возвращает срок жизни access-токена.
func (c *Codec) AccessTTL() time.Duration {
	return c.cfg.AccessTTL
}

// Sign сериализует claims и подписывает их HS256.
// Время округляется до секунд, поэтому для одинаковых claims и секрета
// результат детерминирован.
func (c *Codec) Sign(tc models.TokenClaims) (string, error) {
	const op = "token.Sign"

	issuer := tc.Issuer
	if issuer == "" {
		issuer = c.cfg.Issuer
	}

	jc := claims{
		Username: tc.Username,
		Role:     tc.Role,
		Kind:     tc.Kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tc.ID,
			Subject:   tc.SubjectID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(tc.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(tc.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jc).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// VerifyAccessToken проверяет подпись, срок и вид access-токена.
func (c *Codec) VerifyAccessToken(tokenStr string) (*models.TokenClaims, error) {
	return c.verify(tokenStr, models.KindAccess)
}

// VerifyRefreshToken проверяет подпись, срок и вид refresh-токена.
func (c *Codec) VerifyRefreshToken(tokenStr string) (*models.TokenClaims, error) {
	return c.verify(tokenStr, models.KindRefresh)
}

// CreateTokenPair выпускает access-токен (AccessTTL) и refresh-токен (refreshTTL)
// с одинаковыми subject/username/role.
func (c *Codec) CreateTokenPair(subjectID, username string, role models.Role, refreshTTL time.Duration) (*models.TokenPair, error) {
	const op = "token.CreateTokenPair"

	if strings.TrimSpace(subjectID) == "" || !role.Valid() || refreshTTL <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidClaims)
	}

	now := c.now().UTC().Truncate(time.Second)

	access := models.TokenClaims{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		Username:  username,
		Role:      role,
		Kind:      models.KindAccess,
		Issuer:    c.cfg.Issuer,
		IssuedAt:  now,
		ExpiresAt: now.Add(c.cfg.AccessTTL),
	}

	refresh := access
	refresh.ID = uuid.NewString()
	refresh.Kind = models.KindRefresh
	refresh.ExpiresAt = now.Add(refreshTTL)

	accessToken, err := c.Sign(access)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := c.Sign(refresh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  access.ExpiresAt,
		RefreshExpiresAt: refresh.ExpiresAt,
		AccessTTL:        c.cfg.AccessTTL,
		RefreshTTL:       refreshTTL,
	}, nil
}

// Expired сообщает, истёк ли срок exp относительно now с точностью до секунды.
// exp == now ещё действителен.
func Expired(exp, now time.Time, leeway time.Duration) bool {
	return exp.Add(leeway).Unix() < now.Unix()
}

// verify разбирает токен и проверяет его в порядке: подпись -> обязательные поля -> срок -> вид.
// Проверку exp библиотеки отключаем: она считает exp == now истёкшим.
func (c *Codec) verify(tokenStr string, want models.TokenKind) (*models.TokenClaims, error) {
	const op = "token.verify"

	var jc claims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(tokenStr), &jc,
		func(*jwt.Token) (any, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSignature)
	}

	if jc.Subject == "" || jc.ExpiresAt == nil || !jc.Role.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSignature)
	}

	if c.cfg.Issuer != "" && jc.Issuer != c.cfg.Issuer {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSignature)
	}

	out := &models.TokenClaims{
		ID:        jc.ID,
		SubjectID: jc.Subject,
		Username:  jc.Username,
		Role:      jc.Role,
		Kind:      jc.Kind,
		Issuer:    jc.Issuer,
		ExpiresAt: jc.ExpiresAt.Time.UTC(),
	}
	if jc.IssuedAt != nil {
		out.IssuedAt = jc.IssuedAt.Time.UTC()
	}

	if Expired(out.ExpiresAt, c.now(), c.cfg.Leeway) {
		return nil, fmt.Errorf("%s: %w", op, ErrExpired)
	}

	if out.Kind != want {
		return nil, fmt.Errorf("%s: %w", op, ErrWrongKind)
	}

	return out, nil
}
