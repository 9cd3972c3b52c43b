package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/system/media/controller"
	"academykit_backend/internals/features/system/media/service"
	"academykit_backend/internals/middlewares/authz"
)

func MediaRoutes(r fiber.Router, a *container.App) {
	cfg := a.Config.Storage
	ctl := controller.NewMediaController(service.NewMediaService(a.Storage, cfg.Prefix, cfg.MaxUploadMB))
	r.Post("/media/file", a.Authz.Require("media", authz.ActWrite), ctl.Upload)
}
