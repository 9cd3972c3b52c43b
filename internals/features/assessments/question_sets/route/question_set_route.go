package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/assessments/question_sets/controller"
	"academykit_backend/internals/features/assessments/question_sets/service"
	"academykit_backend/internals/middlewares/authz"
)

func QuestionSetRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewQuestionSetController(service.NewQuestionSetService(a.DB))
	read := a.Authz.Require("question_sets", authz.ActRead)
	write := a.Authz.Require("question_sets", authz.ActWrite)
	attempt := a.Authz.Require("enrollments", authz.ActWrite)

	g := r.Group("/question-sets/:identity")
	g.Get("/", read, ctl.Get)
	g.Get("/questions", write, ctl.Questions)
	g.Post("/add-questions", write, ctl.AddQuestions)

	g.Post("/start-exam", attempt, ctl.StartExam)
	g.Get("/submissions/:submissionId", read, ctl.Submission)
	g.Post("/submissions/:submissionId", attempt, ctl.Submit)

	g.Get("/results", write, ctl.Results)
	g.Get("/results/export", write, ctl.ExportResults)
	g.Get("/results/:userId", read, ctl.Attempts)
}
