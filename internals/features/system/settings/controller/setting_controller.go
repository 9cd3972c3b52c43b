package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/system/settings/dto"
	"academykit_backend/internals/features/system/settings/service"
	helper "academykit_backend/internals/helpers"
)

type SettingController struct {
	Service *service.SettingService
}

func NewSettingController(svc *service.SettingService) *SettingController {
	return &SettingController{Service: svc}
}

func (sc *SettingController) Get(c *fiber.Ctx) error {
	out, err := sc.Service.Get(c.Context())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (sc *SettingController) Update(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.SettingRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := sc.Service.Update(c.Context(), actor, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Settings updated", out)
}
