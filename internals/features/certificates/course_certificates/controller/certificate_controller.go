package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/certificates/course_certificates/dto"
	"academykit_backend/internals/features/certificates/course_certificates/service"
	helper "academykit_backend/internals/helpers"
)

type CertificateController struct {
	Service *service.CertificateService
}

func NewCertificateController(svc *service.CertificateService) *CertificateController {
	return &CertificateController{Service: svc}
}

func (cc *CertificateController) Get(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := cc.Service.Get(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (cc *CertificateController) Save(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.CertificateRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := cc.Service.Save(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Certificate saved", out)
}

func (cc *CertificateController) Issue(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.IssueRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := cc.Service.Issue(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Certificates issued", out)
}

func (cc *CertificateController) Mine(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := cc.Service.Mine(c.Context(), actor)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

// GET /certificates/verify/:enrollmentId (public)
func (cc *CertificateController) Verify(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "enrollmentId")
	if err != nil {
		return err
	}
	out, err := cc.Service.Verify(c.Context(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}
