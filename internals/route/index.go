package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"academykit_backend/internals/container"
	routeDetails "academykit_backend/internals/route/details"
)

// SetupRoutes mounts /api/v1. Public routes are registered before the authenticated group
// so they match ahead of its auth middleware.
func SetupRoutes(app *fiber.App, a *container.App) {
	BaseRoutes(app, a)

	api := app.Group("/api/v1")

	log.Info().Msg("[ROUTES] mounting public routes")
	routeDetails.AccountRoutes(api, a)
	routeDetails.MeetingPublicRoutes(api, a)
	routeDetails.CertificatePublicRoutes(api, a)
	routeDetails.SystemPublicRoutes(api, a)

	log.Info().Msg("[ROUTES] mounting authenticated routes")
	private := api.Group("", a.Auth)
	routeDetails.UserRoutes(private, a)
	routeDetails.CourseRoutes(private, a)
	routeDetails.AssessmentRoutes(private, a)
	routeDetails.MeetingRoutes(private, a)
	routeDetails.CertificateRoutes(private, a)
	routeDetails.SystemRoutes(private, a)
}
