package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/certificates/external_certificates/controller"
	"academykit_backend/internals/features/certificates/external_certificates/service"
	"academykit_backend/internals/middlewares/authz"
)

func ExternalCertificateRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewExternalCertificateController(service.NewExternalCertificateService(a.DB))
	own := a.Authz.Require("external_certificates", authz.ActWrite)

	g := r.Group("/certificates/external")
	g.Get("/", own, ctl.List)
	g.Post("/", own, ctl.Create)
	g.Get("/:id", own, ctl.Get)
	g.Put("/:id", own, ctl.Update)
	g.Patch("/:id/submit", own, ctl.Submit)
	g.Delete("/:id", own, ctl.Delete)
	g.Patch("/:id/verify", a.Authz.Require("external_certificates", authz.ActManage), ctl.Verify)
}
