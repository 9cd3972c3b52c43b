package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/users/groups/dto"
	"academykit_backend/internals/features/users/groups/service"
	helper "academykit_backend/internals/helpers"
)

type GroupController struct {
	Service *service.GroupService
}

func NewGroupController(svc *service.GroupService) *GroupController {
	return &GroupController{Service: svc}
}

func (gc *GroupController) List(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "created_on", "desc", helper.DefaultOpts)
	out, pg, err := gc.Service.List(c.Context(), actor, p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (gc *GroupController) Get(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	g, err := gc.Service.Get(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", g)
}

func (gc *GroupController) Create(c *fiber.Ctx) error {
	by, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.GroupRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	g, err := gc.Service.Create(c.Context(), by, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Group created", dto.FromModel(g))
}

func (gc *GroupController) Update(c *fiber.Ctx) error {
	by, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.GroupRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	g, err := gc.Service.Update(c.Context(), by, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Group updated", dto.FromModel(g))
}

func (gc *GroupController) Delete(c *fiber.Ctx) error {
	if err := gc.Service.Delete(c.Context(), c.Params("identity")); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Group deleted", nil)
}

func (gc *GroupController) Members(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "created_on", "desc", helper.DefaultOpts)
	out, pg, err := gc.Service.Members(c.Context(), actor, c.Params("identity"), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (gc *GroupController) AddMembers(c *fiber.Ctx) error {
	by, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.AddMembersRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := gc.Service.AddMembers(c.Context(), by, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Members processed", res)
}

func (gc *GroupController) RemoveMember(c *fiber.Ctx) error {
	memberID, err := helper.ParseUUIDParam(c, "memberId")
	if err != nil {
		return err
	}
	if err := gc.Service.RemoveMember(c.Context(), c.Params("identity"), memberID); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Member removed", nil)
}
