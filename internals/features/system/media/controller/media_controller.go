package controller

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/features/system/media/service"
	helper "academykit_backend/internals/helpers"
)

type MediaController struct {
	Service *service.MediaService
}

func NewMediaController(svc *service.MediaService) *MediaController {
	return &MediaController{Service: svc}
}

// POST /media/file (multipart: file, type)
func (mc *MediaController) Upload(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.ErrFieldValidation("file", "file is required")
	}
	out, err := mc.Service.Upload(c.Context(), actor, fh, c.FormValue("type"))
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "File uploaded", out)
}
