package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/workload-service/internal/api/http/handlers"
	"github.com/spec-kit/workload-service/internal/auth"
	"github.com/spec-kit/workload-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Session        *handlers.SessionHandler
	Staff          *handlers.EntityHandler[domain.StaffMember]
	Courses        *handlers.EntityHandler[domain.Course]
	Tasks          *handlers.EntityHandler[domain.Task]
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Session.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	registerEntityRoutes(protected.Group("/staff"), cfg.Staff, true)
	registerEntityRoutes(protected.Group("/courses"), cfg.Courses, false)
	registerEntityRoutes(protected.Group("/tasks"), cfg.Tasks, false)

	protected.Get("/reports/workload", cfg.Reports.Workload)
}

func registerEntityRoutes[R domain.Record](router fiber.Router, h *handlers.EntityHandler[R], withUpload bool) {
	router.Get("/", h.List)
	router.Get("/export", h.Export)
	router.Get("/notification", h.Notification)
	router.Delete("/notification", h.DismissNotification)
	router.Get("/:id", h.Get)
	router.Post("/", h.Create)
	router.Put("/:id", h.Update)
	router.Post("/:id/delete-request", h.RequestDelete)
	router.Post("/:id/delete-confirm", h.ConfirmDelete)
	if withUpload {
		router.Post("/:id/image", h.UploadImage)
	}
}
