package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/certificates/course_certificates/controller"
	"academykit_backend/internals/features/certificates/course_certificates/service"
	"academykit_backend/internals/middlewares/authz"
)

func newController(a *container.App) *controller.CertificateController {
	return controller.NewCertificateController(service.NewCertificateService(a.DB, a.Queue, a.Config.App.FrontendURL))
}

func CertificateRoutes(r fiber.Router, a *container.App) {
	ctl := newController(a)
	read := a.Authz.Require("certificates", authz.ActRead)
	write := a.Authz.Require("certificates", authz.ActWrite)

	r.Get("/courses/:identity/certificate", read, ctl.Get)
	r.Put("/courses/:identity/certificate", write, ctl.Save)
	r.Post("/courses/:identity/certificate/issue", write, ctl.Issue)
	r.Get("/certificates/me", read, ctl.Mine)
}

// CertificatePublicRoutes is mounted without authentication.
func CertificatePublicRoutes(r fiber.Router, a *container.App) {
	r.Get("/certificates/verify/:enrollmentId", newController(a).Verify)
}
