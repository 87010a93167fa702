package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pribylovaa/session-service/internal/http/response"
)

// BodyLimit отклоняет запросы с телом больше max байт.
//   - заявленный Content-Length сверх лимита -> сразу 413 без чтения тела;
//   - иначе тело оборачивается http.MaxBytesReader (chi RequestSize), и обработчик
//     получает *http.MaxBytesError при попытке прочитать лишнее.
//
// max <= 0 делает мидлвар no-op.
func BodyLimit(max int64) Middleware {
	return func(next http.Handler) http.Handler {
		if max <= 0 {
			return next
		}

		limited := chimw.RequestSize(max)(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > max {
				response.Error(w, response.ErrRequestTooLarge)
				return
			}

			limited.ServeHTTP(w, r)
		})
	}
}
