package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/constants"
	"academykit_backend/internals/container"
	"academykit_backend/internals/features/system/logs/controller"
	"academykit_backend/internals/features/system/logs/service"
	"academykit_backend/internals/middlewares/auth"
)

func LogRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewLogController(service.NewLogService(a.DB))
	gate := auth.OnlyRoles(constants.RoleErrorSuperAdmin("logs"), constants.RoleSuperAdmin)

	r.Get("/logs", gate, ctl.List)
	r.Get("/logs/:id", gate, ctl.Get)
}
