package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/meetings/meetings/controller"
	"academykit_backend/internals/features/meetings/meetings/service"
	"academykit_backend/internals/middlewares/authz"
)

func MeetingRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewMeetingController(service.NewMeetingService(a.DB), service.NewWebhookService(a.DB, a.Queue))
	read := a.Authz.Require("meetings", authz.ActRead)

	g := r.Group("/meetings")
	g.Get("/:id", read, ctl.Get)
	g.Get("/:id/join", read, ctl.Join)
	g.Get("/:id/reports", read, ctl.Reports)
}

// MeetingWebhookRoutes is mounted outside the auth middleware; the HMAC signature authenticates Zoom.
func MeetingWebhookRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewMeetingController(nil, service.NewWebhookService(a.DB, a.Queue))
	r.Post("/webhooks/zoom", ctl.Webhook)
}
