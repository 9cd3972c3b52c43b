package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/notifications/notifications/controller"
	"academykit_backend/internals/features/notifications/notifications/service"
)

// NotificationRoutes only needs authentication: every query is scoped to the caller.
func NotificationRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewNotificationController(service.NewNotificationService(a.DB))

	g := r.Group("/notifications")
	g.Get("/", ctl.List)
	g.Patch("/read-all", ctl.MarkAllRead)
	g.Patch("/:id/read", ctl.MarkRead)
}
