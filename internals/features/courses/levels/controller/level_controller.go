package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/courses/levels/dto"
	"academykit_backend/internals/features/courses/levels/service"
	helper "academykit_backend/internals/helpers"
)

type LevelController struct {
	Service *service.LevelService
}

func NewLevelController(svc *service.LevelService) *LevelController {
	return &LevelController{Service: svc}
}

func (lc *LevelController) List(c *fiber.Ctx) error {
	rows, err := lc.Service.List(c.Context())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", rows)
}

func (lc *LevelController) Get(c *fiber.Ctx) error {
	l, err := lc.Service.Get(c.Context(), c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", l)
}

func (lc *LevelController) Create(c *fiber.Ctx) error {
	by, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.LevelRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	l, err := lc.Service.Create(c.Context(), by, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Level created", l)
}

func (lc *LevelController) Update(c *fiber.Ctx) error {
	by, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.LevelRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	l, err := lc.Service.Update(c.Context(), by, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Level updated", l)
}

func (lc *LevelController) Delete(c *fiber.Ctx) error {
	if err := lc.Service.Delete(c.Context(), c.Params("identity")); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Level deleted", nil)
}
