package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/notifications/mail/controller"
	"academykit_backend/internals/features/notifications/mail/service"
	"academykit_backend/internals/middlewares/authz"
)

func MailNotificationRoutes(r fiber.Router, a *container.App) {
	svc := service.NewMailNotificationService(a.DB, a.Mailer, a.Config.App.Name, a.Config.App.FrontendURL)
	ctl := controller.NewMailNotificationController(svc)
	manage := a.Authz.Require("mail_notifications", authz.ActManage)

	g := r.Group("/mail-notifications", manage)
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Put("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/preview", ctl.Preview)
	g.Post("/:id/test", ctl.Test)
}
