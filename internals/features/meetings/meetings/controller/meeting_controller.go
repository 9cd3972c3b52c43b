package controller

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/features/meetings/meetings/service"
	helper "academykit_backend/internals/helpers"
)

type MeetingController struct {
	Meetings *service.MeetingService
	Webhooks *service.WebhookService
}

func NewMeetingController(m *service.MeetingService, w *service.WebhookService) *MeetingController {
	return &MeetingController{Meetings: m, Webhooks: w}
}

func (mc *MeetingController) Get(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	out, err := mc.Meetings.Get(c.Context(), actor, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (mc *MeetingController) Join(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	out, err := mc.Meetings.Join(c.Context(), actor, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (mc *MeetingController) Reports(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "join_time", "asc", helper.AdminOpts)
	out, pg, err := mc.Meetings.Reports(c.Context(), actor, id, p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

// POST /webhooks/zoom answers Zoom directly: url validation wants the bare token object.
func (mc *MeetingController) Webhook(c *fiber.Ctx) error {
	out, err := mc.Webhooks.Handle(c.Context(), c.Get("x-zm-request-timestamp"), c.Get("x-zm-signature"), c.Body())
	if err != nil {
		return err
	}
	if out != nil {
		return c.Status(fiber.StatusOK).JSON(out)
	}
	return c.SendStatus(fiber.StatusOK)
}
