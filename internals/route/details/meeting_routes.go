package details

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	meetingRoute "academykit_backend/internals/features/meetings/meetings/route"
	zoomRoute "academykit_backend/internals/features/meetings/zoom/route"
)

func MeetingPublicRoutes(public fiber.Router, a *container.App) {
	meetingRoute.MeetingWebhookRoutes(public, a)
}

func MeetingRoutes(private fiber.Router, a *container.App) {
	zoomRoute.ZoomRoutes(private, a)
	meetingRoute.MeetingRoutes(private, a)
}
