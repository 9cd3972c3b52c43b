package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/assessments/question_pools/dto"
	"academykit_backend/internals/features/assessments/question_pools/service"
	helper "academykit_backend/internals/helpers"
)

type QuestionPoolController struct {
	Pools     *service.PoolService
	Questions *service.QuestionService
}

func NewQuestionPoolController(p *service.PoolService, q *service.QuestionService) *QuestionPoolController {
	return &QuestionPoolController{Pools: p, Questions: q}
}

func (pc *QuestionPoolController) List(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "created_on", "desc", helper.DefaultOpts)
	out, pg, err := pc.Pools.List(c.Context(), actor, p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (pc *QuestionPoolController) Get(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := pc.Pools.Get(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (pc *QuestionPoolController) Create(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.PoolRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := pc.Pools.Create(c.Context(), actor, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Question pool created", out)
}

func (pc *QuestionPoolController) Update(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.PoolRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := pc.Pools.Update(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Question pool updated", out)
}

func (pc *QuestionPoolController) Delete(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	if err := pc.Pools.Delete(c.Context(), actor, c.Params("identity")); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Question pool deleted", nil)
}

func (pc *QuestionPoolController) Teachers(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := pc.Pools.Teachers(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (pc *QuestionPoolController) AddTeacher(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.AddTeacherRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := pc.Pools.AddTeacher(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Teacher added", out)
}

func (pc *QuestionPoolController) RemoveTeacher(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "teacherId")
	if err != nil {
		return err
	}
	if err := pc.Pools.RemoveTeacher(c.Context(), actor, c.Params("identity"), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Teacher removed", nil)
}

/* =========================================================
   QUESTIONS
   ========================================================= */

// GET /question-pools/:identity/questions?search=&tag=
func (pc *QuestionPoolController) ListQuestions(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "order", "asc", helper.DefaultOpts)
	out, pg, err := pc.Questions.List(c.Context(), actor, c.Params("identity"), c.Query("tag"), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (pc *QuestionPoolController) GetQuestion(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "questionId")
	if err != nil {
		return err
	}
	out, err := pc.Questions.Get(c.Context(), actor, c.Params("identity"), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (pc *QuestionPoolController) CreateQuestion(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.QuestionRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := pc.Questions.Create(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Question created", out)
}

func (pc *QuestionPoolController) UpdateQuestion(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "questionId")
	if err != nil {
		return err
	}
	var req dto.QuestionRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := pc.Questions.Update(c.Context(), actor, c.Params("identity"), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Question updated", out)
}

func (pc *QuestionPoolController) DeleteQuestion(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "questionId")
	if err != nil {
		return err
	}
	if err := pc.Questions.Delete(c.Context(), actor, c.Params("identity"), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Question deleted", nil)
}
