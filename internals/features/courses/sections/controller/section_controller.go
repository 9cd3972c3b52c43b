package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/courses/sections/dto"
	"academykit_backend/internals/features/courses/sections/service"
	helper "academykit_backend/internals/helpers"
)

type SectionController struct {
	Service *service.SectionService
}

func NewSectionController(svc *service.SectionService) *SectionController {
	return &SectionController{Service: svc}
}

func (sc *SectionController) List(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := sc.Service.List(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (sc *SectionController) Get(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := sc.Service.Get(c.Context(), actor, c.Params("identity"), c.Params("sectionIdentity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (sc *SectionController) Create(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.SectionRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := sc.Service.Create(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Section created", out)
}

func (sc *SectionController) Update(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.SectionRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := sc.Service.Update(c.Context(), actor, c.Params("identity"), c.Params("sectionIdentity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Section updated", out)
}

func (sc *SectionController) Delete(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	if err := sc.Service.Delete(c.Context(), actor, c.Params("identity"), c.Params("sectionIdentity")); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Section deleted", nil)
}

func (sc *SectionController) Reorder(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.ReorderRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := sc.Service.Reorder(c.Context(), actor, c.Params("identity"), req); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Sections reordered", nil)
}
