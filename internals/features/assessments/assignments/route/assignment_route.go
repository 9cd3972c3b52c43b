package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/assessments/assignments/controller"
	"academykit_backend/internals/features/assessments/assignments/service"
	"academykit_backend/internals/middlewares/authz"
)

func AssignmentRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewAssignmentController(service.NewAssignmentService(a.DB))
	read := a.Authz.Require("courses", authz.ActRead)
	write := a.Authz.Require("courses", authz.ActWrite)
	submit := a.Authz.Require("enrollments", authz.ActWrite)

	g := r.Group("/lessons/:lessonIdentity/assignments")
	g.Get("/", read, ctl.List)
	g.Post("/", write, ctl.Create)
	g.Put("/:assignmentId", write, ctl.Update)
	g.Delete("/:assignmentId", write, ctl.Delete)

	g.Post("/submissions", submit, ctl.Submit)
	g.Get("/submissions", write, ctl.Submitters)
	g.Get("/submissions/:userId", read, ctl.UserSubmission)
	g.Post("/reviews", write, ctl.Review)
}
