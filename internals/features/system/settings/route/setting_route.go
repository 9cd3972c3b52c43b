package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/constants"
	"academykit_backend/internals/container"
	"academykit_backend/internals/features/system/settings/controller"
	"academykit_backend/internals/features/system/settings/service"
	"academykit_backend/internals/middlewares/auth"
)

func newController(a *container.App) *controller.SettingController {
	return controller.NewSettingController(service.NewSettingService(a.DB, a.Config.App.Name))
}

// SettingPublicRoutes serves the branding the login page needs.
func SettingPublicRoutes(r fiber.Router, a *container.App) {
	r.Get("/settings", newController(a).Get)
}

func SettingRoutes(r fiber.Router, a *container.App) {
	r.Put("/settings", auth.MinRole(constants.RoleSuperAdmin), newController(a).Update)
}
