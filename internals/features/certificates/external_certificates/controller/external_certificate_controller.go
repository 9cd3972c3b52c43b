package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/certificates/external_certificates/dto"
	"academykit_backend/internals/features/certificates/external_certificates/service"
	helper "academykit_backend/internals/helpers"
)

type ExternalCertificateController struct {
	Service *service.ExternalCertificateService
}

func NewExternalCertificateController(svc *service.ExternalCertificateService) *ExternalCertificateController {
	return &ExternalCertificateController{Service: svc}
}

func (ec *ExternalCertificateController) List(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var f dto.ListQuery
	if err := c.QueryParser(&f); err != nil {
		return helper.ErrBadRequest("invalid query parameters")
	}
	p := helper.ParseFiber(c, "created_on", "desc", helper.DefaultOpts)
	out, pg, err := ec.Service.List(c.Context(), actor, f, p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (ec *ExternalCertificateController) Get(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	out, err := ec.Service.Get(c.Context(), actor, id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (ec *ExternalCertificateController) Create(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.ExternalCertificateRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ec.Service.Create(c.Context(), actor, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Certificate created", out)
}

func (ec *ExternalCertificateController) Update(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.ExternalCertificateRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ec.Service.Update(c.Context(), actor, id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Certificate updated", out)
}

func (ec *ExternalCertificateController) Submit(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	out, err := ec.Service.Submit(c.Context(), actor, id)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Certificate submitted for review", out)
}

func (ec *ExternalCertificateController) Delete(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := ec.Service.Delete(c.Context(), actor, id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Certificate deleted", nil)
}

func (ec *ExternalCertificateController) Verify(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.VerifyRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ec.Service.Verify(c.Context(), actor, id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Certificate "+req.Status, out)
}
