package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/courses/sections/controller"
	"academykit_backend/internals/features/courses/sections/service"
	"academykit_backend/internals/middlewares/authz"
)

func SectionRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewSectionController(service.NewSectionService(a.DB))
	read := a.Authz.Require("courses", authz.ActRead)
	write := a.Authz.Require("courses", authz.ActWrite)

	g := r.Group("/courses/:identity/sections")
	g.Get("/", read, ctl.List)
	g.Post("/", write, ctl.Create)
	g.Put("/reorder", write, ctl.Reorder)
	g.Get("/:sectionIdentity", read, ctl.Get)
	g.Put("/:sectionIdentity", write, ctl.Update)
	g.Delete("/:sectionIdentity", write, ctl.Delete)
}
