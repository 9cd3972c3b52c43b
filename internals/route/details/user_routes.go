package details

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	authRoute "academykit_backend/internals/features/users/auth/route"
	departmentRoute "academykit_backend/internals/features/users/departments/route"
	groupRoute "academykit_backend/internals/features/users/groups/route"
	userRoute "academykit_backend/internals/features/users/users/route"
)

// AccountRoutes mounts /account; it applies the auth middleware per route.
func AccountRoutes(api fiber.Router, a *container.App) {
	authRoute.AuthRoutes(api, a)
}

func UserRoutes(private fiber.Router, a *container.App) {
	userRoute.UserRoutes(private, a)
	departmentRoute.DepartmentRoutes(private, a)
	groupRoute.GroupRoutes(private, a)
}
