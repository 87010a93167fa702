package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/session-service/internal/http/response"
	"github.com/pribylovaa/session-service/internal/pkg/log"
)

// RateLimitOptions — параметры ограничителя.
type RateLimitOptions struct {
	// Limit — число запросов с одного клиента за Window.
	Limit int
	// Window — окно подсчёта; оно же срок блокировки при превышении.
	Window time.Duration
	// KeyPrefix — префикс ключей в redis.
	KeyPrefix string
	// OnLimited вызывается при отказе (например, для метрик).
	OnLimited func()
	// TrustProxy — сервис стоит за известным прокси, и клиент определяется
	// по первому адресу X-Forwarded-For. Иначе заголовок игнорируется.
	TrustProxy bool
}

// RateLimit ограничивает частоту запросов с одного клиента счётчиком в redis
// (INCR + EXPIRE NX в одной транзакции, отдельный ключ блокировки).
// Недоступный redis не блокирует трафик: запрос пропускается дальше.
// rdb == nil или Limit <= 0 делает мидлвар no-op.
func RateLimit(rdb redis.UniversalClient, opts RateLimitOptions) Middleware {
	return func(next http.Handler) http.Handler {
		if rdb == nil || opts.Limit <= 0 || opts.Window <= 0 {
			return next
		}

		prefix := opts.KeyPrefix
		if prefix == "" {
			prefix = "ratelimit"
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			lg := log.From(ctx)

			key := prefix + ":" + clientID(r, opts.TrustProxy)
			blockKey := key + ":blocked"

			if ttl, err := rdb.TTL(ctx, blockKey).Result(); err == nil && ttl > 0 {
				limited(w, ttl, opts.OnLimited)
				return
			}

			count, err := incrWindow(ctx, rdb, key, opts.Window)
			if err != nil {
				lg.Warn("rate_limit_unavailable", slog.String("err", err.Error()))
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(opts.Limit) {
				if err := rdb.Set(ctx, blockKey, "1", opts.Window).Err(); err != nil {
					lg.Warn("rate_limit_block_failed", slog.String("err", err.Error()))
				}
				lg.Info("rate_limited", slog.String("key", key))
				limited(w, opts.Window, opts.OnLimited)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(opts.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(opts.Limit-int(count)))

			next.ServeHTTP(w, r)
		})
	}
}

// incrWindow увеличивает счётчик и ставит ему TTL окна, если TTL ещё нет.
// Обе команды идут в MULTI/EXEC: счётчик без срока жизни не остаётся.
func incrWindow(ctx context.Context, rdb redis.UniversalClient, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd

	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return incr.Val(), nil
}

func limited(w http.ResponseWriter, retry time.Duration, hook func()) {
	if hook != nil {
		hook()
	}

	secs := int(retry.Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	response.Error(w, response.ErrRateLimited)
}

// clientID — хост из RemoteAddr; за доверенным прокси — первый адрес из X-Forwarded-For.
func clientID(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
				return "ip:" + ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	return "ip:" + host
}
