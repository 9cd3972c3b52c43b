package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/users/departments/controller"
	"academykit_backend/internals/features/users/departments/service"
	"academykit_backend/internals/middlewares/authz"
)

func DepartmentRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewDepartmentController(service.NewDepartmentService(a.DB))
	read := a.Authz.Require("departments", authz.ActRead)
	write := a.Authz.Require("departments", authz.ActWrite)

	g := r.Group("/departments")
	g.Get("/", read, ctl.List)
	g.Post("/", write, ctl.Create)
	g.Get("/:identity", read, ctl.Get)
	g.Put("/:identity", write, ctl.Update)
	g.Delete("/:identity", write, ctl.Delete)
	g.Get("/:identity/users", read, ctl.Users)
}
