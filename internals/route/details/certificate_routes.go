package details

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	certificateRoute "academykit_backend/internals/features/certificates/course_certificates/route"
	externalRoute "academykit_backend/internals/features/certificates/external_certificates/route"
)

func CertificatePublicRoutes(public fiber.Router, a *container.App) {
	certificateRoute.CertificatePublicRoutes(public, a)
}

func CertificateRoutes(private fiber.Router, a *container.App) {
	externalRoute.ExternalCertificateRoutes(private, a)
	certificateRoute.CertificateRoutes(private, a)
}
