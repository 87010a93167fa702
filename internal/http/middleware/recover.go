package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/pribylovaa/session-service/internal/http/response"
	"github.com/pribylovaa/session-service/internal/pkg/log"
)

// Recover перехватывает panic и отвечает 500 в едином конверте.
// Детали паники не утекают на клиент.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "panic_recovered",
					slog.String("path", r.URL.Path),
					slog.Any("reason", rec),
					slog.String("stack", string(debug.Stack())),
				)

				if !sw.wrote {
					response.Error(sw, nil)
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
