package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/leave-service/internal/api/http/handlers"
	"github.com/spec-kit/leave-service/internal/auth"
	"github.com/spec-kit/leave-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Employees      *handlers.EmployeesHandler
	Auth           *handlers.AuthHandler
	Teams          *handlers.TeamsHandler
	Requests       *handlers.RequestsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/online", cfg.Health.Online)
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	app.Post("/signup", cfg.Auth.Signup)
	app.Post("/login", cfg.Auth.Login)
	app.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.Auth.ChangePassword)

	// Everything below resolves the caller from a bearer token or X-Staff-ID.
	api := app.Group("", cfg.AuthMiddleware.Optional)

	api.Get("/employees", cfg.Employees.List)
	api.Get("/employees/:name", cfg.Employees.Get)
	api.Post("/employees", cfg.Employees.Create)

	api.Get("/teams_by_reporting_manager", cfg.Teams.TeamsByReportingManager)
	api.Get("/team_details", cfg.Teams.TeamDetails)
	api.Get("/team/requests", cfg.Teams.CoMemberRequests)
	api.Get("/team/requests/export", cfg.Teams.ExportCoMemberRequests)
	api.Get("/team/:team_id/requests", cfg.Teams.TeamRequests)

	api.Post("/requests", cfg.Requests.Create)
	api.Get("/requests/:staff_id", cfg.Requests.ListForStaff)
	api.Get("/request/:id", cfg.Requests.Get)
	api.Get("/request/:id/history", cfg.Requests.History)
	api.Delete("/withdraw_request/:id", cfg.Requests.Withdraw)
	api.Delete("/cancel_request/:id", cfg.Requests.Cancel)
	api.Put("/request/:id/approve", cfg.Requests.Approve)
	api.Post("/request/:id/approve", cfg.Requests.Approve)
	api.Put("/request/:id/reject", cfg.Requests.Reject)
}
