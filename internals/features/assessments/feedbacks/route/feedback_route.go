package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/assessments/feedbacks/controller"
	"academykit_backend/internals/features/assessments/feedbacks/service"
	"academykit_backend/internals/middlewares/authz"
)

func FeedbackRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewFeedbackController(service.NewFeedbackService(a.DB))
	read := a.Authz.Require("courses", authz.ActRead)
	write := a.Authz.Require("courses", authz.ActWrite)

	g := r.Group("/lessons/:lessonIdentity/feedbacks")
	g.Get("/", read, ctl.List)
	g.Post("/", write, ctl.Create)
	g.Get("/export", write, ctl.Export)
	g.Put("/:feedbackId", write, ctl.Update)
	g.Delete("/:feedbackId", write, ctl.Delete)
	g.Post("/submissions", a.Authz.Require("enrollments", authz.ActWrite), ctl.Submit)
}
