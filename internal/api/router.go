package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/krxsh13/ScamGuard/internal/api/handlers"
	apimiddleware "github.com/krxsh13/ScamGuard/internal/api/middleware"
	"github.com/krxsh13/ScamGuard/internal/config"
	"github.com/krxsh13/ScamGuard/internal/metrics"
	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	limiter  apimiddleware.Limiter
	logger   *logger.Logger
}

// NewRouter creates a new Router instance. limiter may be nil, which disables
// rate limiting regardless of configuration.
func NewRouter(cfg config.Config, h *handlers.Handlers, limiter apimiddleware.Limiter, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		limiter:  limiter,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	timeout := r.config.Server.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(timeout))
	router.Use(metrics.Middleware)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	if r.config.RateLimit.Enabled && r.limiter != nil {
		router.Use(apimiddleware.RateLimiter(r.limiter, r.config.RateLimit, r.config.Auth.APIKeys, r.logger))
	}

	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)
	router.Handle("/metrics", metrics.Handler())

	router.Route("/api/v1", func(api chi.Router) {
		// Analysis
		api.Post("/analyze", r.handlers.Analysis.Analyze)
		api.Post("/analyze/batch", r.handlers.Analysis.AnalyzeBatch)
		api.Post("/analyze/document", r.handlers.Analysis.AnalyzeDocument)
		api.Get("/rules", r.handlers.Analysis.Rules)

		api.Route("/awareness", func(aw chi.Router) {
			aw.Get("/topics", r.handlers.Awareness.ListTopics)
			aw.Get("/topics/{id}", r.handlers.Awareness.GetTopic)
			aw.Get("/quiz", r.handlers.Awareness.Quiz)
			aw.Post("/quiz/grade", r.handlers.Awareness.Grade)
		})

		// Live verdict feed
		api.Get("/stream", r.handlers.Streaming.HandleWebSocket)
		api.Get("/stream/stats", r.handlers.Streaming.GetStats)

		// Protected
		api.Group(func(admin chi.Router) {
			admin.Use(apimiddleware.APIKeyAuth(r.config.Auth.APIKeys))

			admin.Get("/stats", r.handlers.Stats.Get)
			admin.Post("/stats/rollup", r.handlers.Stats.Rollup)
		})
	})

	return router
}
