package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/communitykit/guild-agent/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Stats  *handlers.StatsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/healthz", cfg.Health.Live)

	api := app.Group("/api/v1")
	api.Get("/stats", cfg.Stats.Get)
}
