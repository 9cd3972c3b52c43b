package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/courses/tags/dto"
	"academykit_backend/internals/features/courses/tags/service"
	helper "academykit_backend/internals/helpers"
)

type TagController struct {
	Service *service.TagService
}

func NewTagController(svc *service.TagService) *TagController {
	return &TagController{Service: svc}
}

func (tc *TagController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	out, pg, err := tc.Service.List(c.Context(), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (tc *TagController) Create(c *fiber.Ctx) error {
	by, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.TagRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	t, err := tc.Service.Create(c.Context(), by, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Tag created", t)
}

func (tc *TagController) Update(c *fiber.Ctx) error {
	by, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.TagRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	t, err := tc.Service.Update(c.Context(), by, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Tag updated", t)
}

func (tc *TagController) Delete(c *fiber.Ctx) error {
	if err := tc.Service.Delete(c.Context(), c.Params("identity")); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Tag deleted", nil)
}
