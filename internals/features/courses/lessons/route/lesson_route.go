package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/courses/lessons/controller"
	"academykit_backend/internals/features/courses/lessons/service"
	meetingService "academykit_backend/internals/features/meetings/meetings/service"
	"academykit_backend/internals/middlewares/authz"
)

func LessonRoutes(r fiber.Router, a *container.App) {
	svc := service.NewLessonService(a.DB, meetingService.NewScheduler(a.Zoom))
	ctl := controller.NewLessonController(svc)
	read := a.Authz.Require("courses", authz.ActRead)
	write := a.Authz.Require("courses", authz.ActWrite)

	g := r.Group("/courses/:identity/lessons")
	g.Get("/", read, ctl.List)
	g.Post("/", write, ctl.Create)
	g.Put("/reorder", write, ctl.Reorder)
	g.Get("/:lessonIdentity", read, ctl.Get)
	g.Put("/:lessonIdentity", write, ctl.Update)
	g.Delete("/:lessonIdentity", write, ctl.Delete)
	g.Post("/:lessonIdentity/watch-history", a.Authz.Require("enrollments", authz.ActWrite), ctl.Watch)
}
