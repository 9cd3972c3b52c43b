package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/features/notifications/notifications/service"
	helper "academykit_backend/internals/helpers"
)

type NotificationController struct {
	Service *service.NotificationService
}

func NewNotificationController(svc *service.NotificationService) *NotificationController {
	return &NotificationController{Service: svc}
}

// GET /notifications?unread=true
func (nc *NotificationController) List(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "created_on", "desc", helper.DefaultOpts)
	rows, pg, unread, err := nc.Service.List(c.Context(), userID, c.QueryBool("unread"), p)
	if err != nil {
		return err
	}
	c.Set("X-Unread-Count", strconv.FormatInt(unread, 10))
	return helper.JsonList(c, "OK", rows, pg)
}

func (nc *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := nc.Service.MarkRead(c.Context(), userID, id); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Notification read", nil)
}

func (nc *NotificationController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	n, err := nc.Service.MarkAllRead(c.Context(), userID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Notifications read", fiber.Map{"updated": n})
}
