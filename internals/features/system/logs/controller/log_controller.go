package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/system/logs/dto"
	"academykit_backend/internals/features/system/logs/service"
	helper "academykit_backend/internals/helpers"
)

type LogController struct {
	Service *service.LogService
}

func NewLogController(svc *service.LogService) *LogController {
	return &LogController{Service: svc}
}

// GET /logs?level=&from=&to=&search=
func (lc *LogController) List(c *fiber.Ctx) error {
	var f dto.ListQuery
	if err := c.QueryParser(&f); err != nil {
		return helper.ErrBadRequest("invalid query parameters")
	}
	f.Normalize()
	p := helper.ParseFiber(c, "timestamp", "desc", helper.AdminOpts)
	out, pg, err := lc.Service.List(c.Context(), f, p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (lc *LogController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	out, err := lc.Service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}
