package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/meetings/zoom/controller"
	"academykit_backend/internals/features/meetings/zoom/service"
	"academykit_backend/internals/middlewares/authz"
)

func ZoomRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewZoomController(service.NewSettingsService(a.DB), service.NewLicenseService(a.DB))

	settings := a.Authz.Require("zoom_settings", authz.ActWrite)
	r.Get("/zoom-settings", settings, ctl.GetSettings)
	r.Put("/zoom-settings", settings, ctl.PutSettings)

	read := a.Authz.Require("zoom_licenses", authz.ActRead)
	write := a.Authz.Require("zoom_licenses", authz.ActWrite)
	g := r.Group("/zoom-licenses")
	g.Get("/", read, ctl.ListLicenses)
	g.Get("/active", read, ctl.ActiveLicenses)
	g.Post("/", write, ctl.CreateLicense)
	g.Get("/:id", read, ctl.GetLicense)
	g.Put("/:id", write, ctl.UpdateLicense)
	g.Delete("/:id", write, ctl.DeleteLicense)
}
