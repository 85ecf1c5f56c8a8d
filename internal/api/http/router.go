package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-client/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
}

// RegisterRoutes wires facade routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/state", cfg.Tickets.State)
	app.Post("/reload", cfg.Tickets.Reload)

	tickets := app.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Detail)
	tickets.Put("/:id/assignee/:userId", cfg.Tickets.Assign)
	tickets.Post("/:id/toggle", cfg.Tickets.Toggle)
}
