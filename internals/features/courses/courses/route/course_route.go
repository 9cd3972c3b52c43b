package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/courses/courses/controller"
	"academykit_backend/internals/features/courses/courses/service"
	"academykit_backend/internals/middlewares/authz"
)

// CourseRoutes gates by role here; per-course teacher checks happen in the service.
func CourseRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewCourseController(service.NewCourseService(a.DB, a.Queue))
	read := a.Authz.Require("courses", authz.ActRead)
	write := a.Authz.Require("courses", authz.ActWrite)

	g := r.Group("/courses")
	g.Get("/", read, ctl.List)
	g.Post("/", write, ctl.Create)
	g.Get("/:identity", read, ctl.Get)
	g.Put("/:identity", write, ctl.Update)
	g.Patch("/:identity/status", write, ctl.ChangeStatus)
	g.Delete("/:identity", write, ctl.Delete)

	g.Get("/:identity/teachers", write, ctl.Teachers)
	g.Post("/:identity/teachers", write, ctl.AddTeacher)
	g.Delete("/:identity/teachers/:teacherId", write, ctl.RemoveTeacher)

	g.Post("/:identity/enroll", a.Authz.Require("enrollments", authz.ActWrite), ctl.Enroll)
	g.Get("/:identity/statistics", write, ctl.Statistics)
	g.Get("/:identity/enrollments", write, ctl.Enrollments)
	g.Get("/:identity/enrollments/export", write, ctl.ExportEnrollments)
}
