package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tourism-auth/internal/api/http/handlers"
	"github.com/spec-kit/tourism-auth/internal/auth"
	"github.com/spec-kit/tourism-auth/internal/config"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
	RateLimit      config.RateLimitConfig
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Health.Metrics)

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth", authRateLimiter(cfg.RateLimit))
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/verify", cfg.Auth.Verify)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)
	authGroup.Post("/resend-reset-code", cfg.Auth.ResendCode)
	authGroup.Post("/refresh-token", cfg.Auth.Refresh)

	users := v1.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/me", cfg.Users.Me)
}
