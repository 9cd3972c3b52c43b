package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/courses/levels/controller"
	"academykit_backend/internals/features/courses/levels/service"
	"academykit_backend/internals/middlewares/authz"
)

func LevelRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewLevelController(service.NewLevelService(a.DB))
	read := a.Authz.Require("levels", authz.ActRead)
	write := a.Authz.Require("levels", authz.ActWrite)

	g := r.Group("/levels")
	g.Get("/", read, ctl.List)
	g.Post("/", write, ctl.Create)
	g.Get("/:identity", read, ctl.Get)
	g.Put("/:identity", write, ctl.Update)
	g.Delete("/:identity", write, ctl.Delete)
}
