package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/stay-auth/internal/api/http/handlers"
	"github.com/spec-kit/stay-auth/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Authenticator *auth.Authenticator
}

// RegisterRoutes wires HTTP routes. The authenticator filter runs for every
// route; individual routes decide whether a principal is required.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Authenticator.Filter())

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)
	app.Get("/metrics", cfg.Health.Prometheus())

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/status", cfg.Auth.Status)
	authGroup.Get("/me", auth.RequireAuthenticated(), cfg.Auth.Me)

	app.Post(auth.RefreshTokenCookiePath, cfg.Auth.Refresh)
}
