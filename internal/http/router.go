package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/pribylovaa/session-service/internal/http/handlers"
	"github.com/pribylovaa/session-service/internal/http/middleware"
	"github.com/pribylovaa/session-service/internal/http/response"
	"github.com/pribylovaa/session-service/internal/metrics"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.

	// MaxBodyBytes — предел размера тела запроса.
	MaxBodyBytes int64
	// AllowedOrigins — источники админского UI для CORS (с credentials).
	AllowedOrigins []string

	// Redis включает ограничение частоты /auth/refresh; nil — без ограничения.
	Redis            redis.UniversalClient
	RefreshPerWindow int
	RefreshWindow    time.Duration
	// TrustProxy — клиент для лимита берётся из X-Forwarded-For.
	TrustProxy bool

	// AccessCookie — имя cookie с access-токеном для защищённых маршрутов.
	AccessCookie string
	Metrics      *metrics.Metrics
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.SessionService, h *handlers.Handlers, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // паники -> 500 в едином конверте
		middleware.RequestID(),          // X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // request-scoped логгер в контексте
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", middleware.HeaderRequestID},
			ExposedHeaders:   []string{middleware.HeaderRequestID, "Retry-After"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		middleware.BodyLimit(opts.MaxBodyBytes),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	root.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.ErrorStatus(w, http.StatusNotFound, "Not found")
	})
	root.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.ErrorStatus(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, svc, h, opts)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, svc, h, opts)
	return root
}

// registerRoutes — единая точка регистрации REST-эндпойнтов.
func registerRoutes(r chi.Router, svc handlers.SessionService, h *handlers.Handlers, opts Options) {
	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(opts.Redis, middleware.RateLimitOptions{
			Limit:      opts.RefreshPerWindow,
			Window:     opts.RefreshWindow,
			KeyPrefix:  "session:refresh",
			OnLimited:  opts.Metrics.RateLimited,
			TrustProxy: opts.TrustProxy,
		})).Post("/refresh", h.Refresh)

		r.Post("/logout", h.Logout)

		r.With(middleware.RequireAccess(svc, opts.AccessCookie)).Get("/session", h.Session)
	})
}
