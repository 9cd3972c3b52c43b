package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/notifications/mail/dto"
	"academykit_backend/internals/features/notifications/mail/service"
	helper "academykit_backend/internals/helpers"
)

type MailNotificationController struct {
	Service *service.MailNotificationService
}

func NewMailNotificationController(svc *service.MailNotificationService) *MailNotificationController {
	return &MailNotificationController{Service: svc}
}

func (mc *MailNotificationController) List(c *fiber.Ctx) error {
	var f dto.ListQuery
	if err := c.QueryParser(&f); err != nil {
		return helper.ErrBadRequest("invalid query parameters")
	}
	p := helper.ParseFiber(c, "created_on", "desc", helper.AdminOpts)
	out, pg, err := mc.Service.List(c.Context(), f, p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (mc *MailNotificationController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	out, err := mc.Service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (mc *MailNotificationController) Create(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.MailNotificationRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := mc.Service.Create(c.Context(), actor, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Mail notification created", out)
}

func (mc *MailNotificationController) Update(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.MailNotificationRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := mc.Service.Update(c.Context(), actor, id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Mail notification updated", out)
}

func (mc *MailNotificationController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := mc.Service.Delete(c.Context(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Mail notification deleted", nil)
}

// POST /mail-notifications/:id/preview
func (mc *MailNotificationController) Preview(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	out, err := mc.Service.Preview(c.Context(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

// POST /mail-notifications/:id/test
func (mc *MailNotificationController) Test(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := mc.Service.Test(c.Context(), actor, id); err != nil {
		return err
	}
	return helper.JsonOK(c, "Test mail sent", nil)
}
