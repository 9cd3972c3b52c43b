package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/courses/tags/controller"
	"academykit_backend/internals/features/courses/tags/service"
	"academykit_backend/internals/middlewares/authz"
)

func TagRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewTagController(service.NewTagService(a.DB))
	write := a.Authz.Require("tags", authz.ActWrite)

	g := r.Group("/tags")
	g.Get("/", a.Authz.Require("tags", authz.ActRead), ctl.List)
	g.Post("/", write, ctl.Create)
	g.Put("/:identity", write, ctl.Update)
	g.Delete("/:identity", write, ctl.Delete)
}
