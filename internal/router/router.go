package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/commentstream/backend/internal/config"
	"github.com/commentstream/backend/internal/handlers"
	"github.com/commentstream/backend/internal/metrics"
	"github.com/commentstream/backend/internal/middleware"
	"github.com/commentstream/backend/internal/services"
	"github.com/commentstream/backend/internal/store"
	"github.com/commentstream/backend/internal/stream"
)

func New(cfg *config.Config, comments *store.CommentStore, registry *stream.Registry, broadcaster *stream.Broadcaster) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewRealIPMiddleware(cfg.TrustedProxies).Handler)
	r.Use(middleware.RequestContextMiddleware)
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	// Services
	authService := services.NewAuthService(cfg.JWTSecret, cfg.AdminTokenDuration)
	guestNameService := services.NewGuestNameService()

	// Handlers
	healthHandler := handlers.NewHealthHandler(registry, comments)
	commentHandler := handlers.NewCommentHandler(cfg, comments, broadcaster, guestNameService)
	streamHandler := handlers.NewStreamHandler(cfg, registry, comments)
	adminHandler := handlers.NewAdminHandler(cfg, authService, comments)

	// Rate limiter for comment posting
	postRateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)

	// Routes
	r.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", healthHandler.Check)

		// Live event stream
		r.Get("/stream", streamHandler.Subscribe)

		// Comments
		r.Route("/comments", func(r chi.Router) {
			r.Get("/", commentHandler.List)
			r.With(postRateLimiter.Middleware).Post("/", commentHandler.Create)
		})

		// Admin portal verification (no auth required)
		r.Post("/admin/verify", adminHandler.VerifyPassword)

		// Admin-only moderation routes
		r.Route("/admin/comments", func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))
			r.Use(middleware.UpdateRequestContextMiddleware)
			r.Use(middleware.AdminOnlyMiddleware)
			r.Delete("/", adminHandler.ClearComments)
		})
	})

	// Prometheus metrics
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
