package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/edumark/gradebook-go-api/internal/config"
	"github.com/edumark/gradebook-go-api/internal/handler"
	"github.com/edumark/gradebook-go-api/internal/middleware"
	"github.com/edumark/gradebook-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	RubricHandler  *handler.RubricHandler
	RosterHandler  *handler.RosterHandler
	PolicyHandler  *handler.PolicyHandler
	GradeHandler   *handler.GradeHandler
	SessionHandler *handler.SessionHandler
	PrivacyHandler *handler.PrivacyHandler
	SummaryHandler *handler.SummaryHandler
	JWTMiddleware  fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	instructorOnly := middleware.RequireRole(middleware.RoleInstructor, middleware.RoleAdmin)

	// Rubric and roster loads parse and validate whole documents; keep them
	// behind a per-user rate limit.
	importLimit := middleware.RateLimit("import", 30, time.Minute)

	if deps.RubricHandler != nil {
		deps.RubricHandler.Register(api.Group("/rubric", jwtMiddleware, instructorOnly, importLimit))
	}
	if deps.RosterHandler != nil {
		deps.RosterHandler.Register(api.Group("/roster", jwtMiddleware, instructorOnly, importLimit))
	}
	if deps.PolicyHandler != nil {
		deps.PolicyHandler.Register(api.Group("/policies", jwtMiddleware, instructorOnly))
	}
	if deps.GradeHandler != nil {
		deps.GradeHandler.Register(api.Group("/grades", jwtMiddleware, instructorOnly))
	}
	if deps.SessionHandler != nil {
		deps.SessionHandler.Register(api.Group("/session", jwtMiddleware, instructorOnly))
	}
	if deps.PrivacyHandler != nil {
		deps.PrivacyHandler.Register(api.Group("/privacy", jwtMiddleware, instructorOnly))
	}
	if deps.SummaryHandler != nil {
		deps.SummaryHandler.Register(api.Group("/class", jwtMiddleware, instructorOnly))
	}
}
