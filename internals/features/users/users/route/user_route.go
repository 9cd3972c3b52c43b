package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/users/users/controller"
	"academykit_backend/internals/features/users/users/service"
	"academykit_backend/internals/middlewares/authz"
)

// UserRoutes mounts /users on an authenticated router.
func UserRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewUserController(service.NewUserService(a.DB, a.Queue))
	manage := a.Authz.Require("users", authz.ActManage)

	users := r.Group("/users")
	users.Get("/", manage, ctl.List)
	users.Get("/export", manage, ctl.Export)
	users.Post("/", manage, ctl.Create)
	users.Post("/bulk", manage, ctl.BulkImport)
	users.Get("/:id", ctl.Get)
	users.Put("/:id", ctl.Update)
	users.Patch("/:id/status", manage, ctl.UpdateStatus)
}
