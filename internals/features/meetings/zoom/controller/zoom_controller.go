package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/meetings/zoom/dto"
	"academykit_backend/internals/features/meetings/zoom/service"
	helper "academykit_backend/internals/helpers"
)

type ZoomController struct {
	Settings *service.SettingsService
	Licenses *service.LicenseService
}

func NewZoomController(settings *service.SettingsService, licenses *service.LicenseService) *ZoomController {
	return &ZoomController{Settings: settings, Licenses: licenses}
}

func (zc *ZoomController) GetSettings(c *fiber.Ctx) error {
	out, err := zc.Settings.Get(c.Context())
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (zc *ZoomController) PutSettings(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.SettingsRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := zc.Settings.Put(c.Context(), actor, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Zoom settings saved", out)
}

func (zc *ZoomController) ListLicenses(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_on", "desc", helper.DefaultOpts)
	out, pg, err := zc.Licenses.List(c.Context(), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (zc *ZoomController) GetLicense(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	out, err := service.LoadLicense(c.Context(), zc.Licenses.DB, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

// GET /zoom-licenses/active?start_date=&duration=
func (zc *ZoomController) ActiveLicenses(c *fiber.Ctx) error {
	var q dto.ActiveQuery
	if err := c.QueryParser(&q); err != nil {
		return helper.ErrBadRequest("start_date must be RFC3339 and duration a number of seconds")
	}
	if err := helper.ValidateStruct(q); err != nil {
		return err
	}
	out, err := zc.Licenses.Active(c.Context(), q)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (zc *ZoomController) CreateLicense(c *fiber.Ctx) error {
	by, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.LicenseRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := zc.Licenses.Create(c.Context(), by, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Zoom license created", out)
}

func (zc *ZoomController) UpdateLicense(c *fiber.Ctx) error {
	by, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.LicenseRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := zc.Licenses.Update(c.Context(), by, id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Zoom license updated", out)
}

func (zc *ZoomController) DeleteLicense(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := zc.Licenses.Delete(c.Context(), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Zoom license deleted", nil)
}
