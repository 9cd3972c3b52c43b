package route

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/assessments/question_pools/controller"
	"academykit_backend/internals/features/assessments/question_pools/service"
	"academykit_backend/internals/middlewares/authz"
)

func QuestionPoolRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewQuestionPoolController(service.NewPoolService(a.DB), service.NewQuestionService(a.DB))
	read := a.Authz.Require("question_pools", authz.ActRead)
	write := a.Authz.Require("question_pools", authz.ActWrite)

	g := r.Group("/question-pools")
	g.Get("/", read, ctl.List)
	g.Post("/", write, ctl.Create)
	g.Get("/:identity", read, ctl.Get)
	g.Put("/:identity", write, ctl.Update)
	g.Delete("/:identity", write, ctl.Delete)

	g.Get("/:identity/teachers", read, ctl.Teachers)
	g.Post("/:identity/teachers", write, ctl.AddTeacher)
	g.Delete("/:identity/teachers/:teacherId", write, ctl.RemoveTeacher)

	g.Get("/:identity/questions", read, ctl.ListQuestions)
	g.Post("/:identity/questions", write, ctl.CreateQuestion)
	g.Get("/:identity/questions/:questionId", read, ctl.GetQuestion)
	g.Put("/:identity/questions/:questionId", write, ctl.UpdateQuestion)
	g.Delete("/:identity/questions/:questionId", write, ctl.DeleteQuestion)
}
