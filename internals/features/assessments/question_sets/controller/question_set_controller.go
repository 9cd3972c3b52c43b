package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/assessments/question_sets/dto"
	"academykit_backend/internals/features/assessments/question_sets/service"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/export"
)

type QuestionSetController struct {
	Service *service.QuestionSetService
}

func NewQuestionSetController(svc *service.QuestionSetService) *QuestionSetController {
	return &QuestionSetController{Service: svc}
}

func (qc *QuestionSetController) Get(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := qc.Service.Get(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (qc *QuestionSetController) Questions(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := qc.Service.Questions(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (qc *QuestionSetController) AddQuestions(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.AddQuestionsRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := qc.Service.AddQuestions(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Questions saved", out)
}

func (qc *QuestionSetController) StartExam(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := qc.Service.StartExam(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Exam started", out)
}

func (qc *QuestionSetController) Submit(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "submissionId")
	if err != nil {
		return err
	}
	var req dto.SubmitRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := qc.Service.Submit(c.Context(), actor, c.Params("identity"), id, req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Submission received", out)
}

func (qc *QuestionSetController) Submission(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "submissionId")
	if err != nil {
		return err
	}
	out, err := qc.Service.Submission(c.Context(), actor, c.Params("identity"), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (qc *QuestionSetController) Results(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "submitted_on", "desc", helper.AdminOpts)
	out, pg, err := qc.Service.Results(c.Context(), actor, c.Params("identity"), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (qc *QuestionSetController) Attempts(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	userID, err := helper.ParseUUIDParam(c, "userId")
	if err != nil {
		return err
	}
	out, err := qc.Service.Attempts(c.Context(), actor, c.Params("identity"), userID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

// GET /question-sets/:identity/results/export?format=csv|xlsx
func (qc *QuestionSetController) ExportResults(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	t, name, err := qc.Service.ResultsTable(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return export.Send(c, t, c.Query("format", "csv"), name)
}
