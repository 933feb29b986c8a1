package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/http/handlers"
	"github.com/spec-kit/lostfound-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Items          *handlers.ItemsHandler
	Claims         *handlers.ClaimsHandler
	Messages       *handlers.MessagesHandler
	Upload         *handlers.UploadHandler
	AuthMiddleware *auth.AuthMiddleware
	// UploadsDir is served under /uploads when files are stored locally.
	UploadsDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authenticated := cfg.AuthMiddleware.Handle

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", authenticated, cfg.Users.Logout)
	authGroup.Get("/me", authenticated, cfg.Users.Me)

	app.Get("/listings", cfg.Items.Listings)

	items := app.Group("/items", authenticated, auth.RequireSession())
	items.Post("/", cfg.Items.Create)
	items.Get("/", cfg.Items.ListMine)
	items.Get("/:id", cfg.Items.Get)
	items.Patch("/:id", cfg.Items.Update)
	items.Delete("/:id", cfg.Items.Delete)
	items.Post("/:id/claims", cfg.Claims.Submit)
	items.Get("/:id/claims/my", cfg.Claims.Mine)

	claims := app.Group("/claims", authenticated, auth.RequireAdmin())
	claims.Get("/pending", cfg.Claims.Pending)
	claims.Post("/:id/approve", cfg.Claims.Approve)
	claims.Post("/:id/reject", cfg.Claims.Reject)

	messages := app.Group("/messages", authenticated, auth.RequireSession())
	messages.Post("/", cfg.Messages.Send)
	messages.Get("/", cfg.Messages.List)

	app.Post("/upload", authenticated, cfg.Upload.Upload)

	if cfg.UploadsDir != "" {
		app.Static("/uploads", cfg.UploadsDir)
	}
}
