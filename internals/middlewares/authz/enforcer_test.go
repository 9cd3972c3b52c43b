package authz

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
)

func TestEnforcer_RoleHierarchy(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	tests := []struct {
		role, obj, act string
		want           bool
	}{
		{constants.RoleTrainee, "courses", ActRead, true},
		{constants.RoleTrainee, "courses", ActWrite, false},
		{constants.RoleTrainee, "users", ActRead, false},
		{constants.RoleTrainer, "courses", ActRead, true},
		{constants.RoleTrainer, "courses", ActWrite, true},
		{constants.RoleTrainer, "departments", ActWrite, false},
		{constants.RoleAdmin, "departments", ActWrite, true},
		{constants.RoleAdmin, "users", ActManage, true},
		{constants.RoleAdmin, "logs", ActRead, false},
		{constants.RoleAdmin, "settings", ActWrite, false},
		{constants.RoleSuperAdmin, "logs", ActRead, true},
		{constants.RoleSuperAdmin, "settings", ActWrite, true},
		{"", "courses", ActRead, false},
		{"guest", "courses", ActRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.obj+"/"+tt.act, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Can(tt.role, tt.obj, tt.act))
		})
	}
}

func TestEnforcer_Require(t *testing.T) {
	e := MustEnforcer()
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		if r := c.Get("X-Role"); r != "" {
			c.Locals(helper.LocRole, r)
		}
		return c.Next()
	})
	app.Get("/departments", e.Require("departments", ActWrite), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	do := func(role string) int {
		req := httptest.NewRequest(fiber.MethodGet, "/departments", nil)
		if role != "" {
			req.Header.Set("X-Role", role)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}
	assert.Equal(t, fiber.StatusUnauthorized, do(""))
	assert.Equal(t, fiber.StatusForbidden, do(constants.RoleTrainer))
	assert.Equal(t, fiber.StatusOK, do(constants.RoleAdmin))
	assert.Equal(t, fiber.StatusOK, do(constants.RoleSuperAdmin))
}
