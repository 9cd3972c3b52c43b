package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/assessments/assessments/controller"
	"academykit_backend/internals/features/assessments/assessments/service"
	"academykit_backend/internals/middlewares/authz"
)

// AssessmentRoutes: authors and admins are told apart in the service.
func AssessmentRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewAssessmentController(service.NewAssessmentService(a.DB))
	read := a.Authz.Require("assessments", authz.ActRead)
	write := a.Authz.Require("assessments", authz.ActWrite)
	attempt := a.Authz.Require("assessment_attempts", authz.ActWrite)

	g := r.Group("/assessments")
	g.Get("/", read, ctl.List)
	g.Post("/", write, ctl.Create)
	g.Get("/:identity", read, ctl.Get)
	g.Put("/:identity", write, ctl.Update)
	g.Patch("/:identity/status", write, ctl.ChangeStatus)
	g.Delete("/:identity", write, ctl.Delete)

	g.Get("/:identity/questions", write, ctl.Questions)
	g.Post("/:identity/questions", write, ctl.CreateQuestion)
	g.Put("/:identity/questions/:questionId", write, ctl.UpdateQuestion)
	g.Delete("/:identity/questions/:questionId", write, ctl.DeleteQuestion)

	g.Get("/:identity/eligibility", write, ctl.Eligibility)
	g.Post("/:identity/eligibility", write, ctl.AddEligibility)
	g.Delete("/:identity/eligibility/:eligibilityId", write, ctl.RemoveEligibility)

	g.Get("/:identity/exam", attempt, ctl.StartExam)
	g.Post("/:identity/submissions/:submissionId", attempt, ctl.Submit)

	g.Get("/:identity/results", write, ctl.Results)
	g.Get("/:identity/results/me", read, ctl.MyResults)
	g.Get("/:identity/results/export", write, ctl.ExportResults)
	g.Get("/:identity/results/:userId", write, ctl.UserResults)
}
