package http

import (
	"net/http"

	"github.com/bfitapp/server/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler serving the fitness streak API.
//
// Routes:
//
//	GET  /api/health          → healthHandler.Health
//	POST /api/register        → authHandler.Register
//	POST /api/login           → authHandler.Login
//	POST /api/reset-password  → authHandler.ResetPassword
//	POST /api/streak/update   → streakHandler.Update
//	POST /api/streak/sync     → streakHandler.Sync
//	GET  /api/streak/{userID} → streakHandler.Get
//
// Middleware chain (applied in order):
//  1. Recoverer                          — turns panics into 500s
//  2. AllowContentType("application/json") — rejects non-JSON bodies
//  3. WithRequestLogging(logger)         — logs every request
func NewRouter(
	authHandler *AuthHandler,
	streakHandler *StreakHandler,
	healthHandler *HealthHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	// Only allow requests with Content-Type: application/json (bodyless GETs
	// pass through)
	r.Use(chiMiddleware.AllowContentType("application/json"))
	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/reset-password", authHandler.ResetPassword)

		r.Route("/streak", func(r chi.Router) {
			r.Post("/update", streakHandler.Update)
			r.Post("/sync", streakHandler.Sync)
			r.Get("/{userID}", streakHandler.Get)
		})
	})

	return r
}
