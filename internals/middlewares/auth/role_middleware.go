package auth

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
)

// OnlyRoles lets the request through when the caller's role is one of roles.
func OnlyRoles(customMessage string, roles ...string) fiber.Handler {
	if customMessage == "" {
		customMessage = "you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		role := helper.GetRole(c)
		if role == "" {
			return helper.ErrUnauthorized("missing role information")
		}
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return helper.ErrForbidden(customMessage)
	}
}

// MinRole lets through callers ranked at or above min.
func MinRole(min string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helper.GetRole(c)
		if role == "" {
			return helper.ErrUnauthorized("missing role information")
		}
		if !constants.RoleAtLeast(role, min) {
			return helper.ErrForbidden("requires " + min + " role or higher")
		}
		return c.Next()
	}
}
