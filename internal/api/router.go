package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"elderguard/internal/api/handlers"
	apimiddleware "elderguard/internal/api/middleware"
	"elderguard/internal/config"
	"elderguard/internal/infrastructure/cache"
	"elderguard/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance. c may be nil, which disables rate limiting.
func NewRouter(cfg config.Config, h *handlers.Handlers, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)

	router.Route("/api", func(api chi.Router) {
		api.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit, r.logger))

		api.Post("/analyze", r.handlers.Analyze.Analyze)
		api.Post("/analyze-message", r.handlers.Analyze.AnalyzeMessage)
		api.Post("/scan-url", r.handlers.URL.ScanURL)
		api.Post("/expand-url", r.handlers.URL.ExpandURL)
		api.Post("/translate", r.handlers.Translate.Translate)

		// Session required
		api.Group(func(auth chi.Router) {
			auth.Use(apimiddleware.SessionAuth(r.config.Auth.JWTSecret, r.config.Auth.Issuer, r.logger))

			auth.Post("/auth/session", r.handlers.Profile.Session)
			auth.Get("/user/profile", r.handlers.Profile.Get)
			auth.Put("/user/profile", r.handlers.Profile.Update)
			auth.Post("/alerts/emergency", r.handlers.Alert.Emergency)
			auth.Post("/reports", r.handlers.Report.Create)
			auth.Get("/reports", r.handlers.Report.List)
		})
	})

	return router
}
