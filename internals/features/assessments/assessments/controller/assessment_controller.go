package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/assessments/assessments/dto"
	"academykit_backend/internals/features/assessments/assessments/service"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/export"
)

type AssessmentController struct {
	Service *service.AssessmentService
}

func NewAssessmentController(svc *service.AssessmentService) *AssessmentController {
	return &AssessmentController{Service: svc}
}

func (ac *AssessmentController) List(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var f dto.ListQuery
	if err := c.QueryParser(&f); err != nil {
		return helper.ErrBadRequest("invalid query parameters")
	}
	p := helper.ParseFiber(c, "created_on", "desc", helper.DefaultOpts)
	out, pg, err := ac.Service.List(c.Context(), actor, f, p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (ac *AssessmentController) Get(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := ac.Service.Get(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (ac *AssessmentController) Create(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.AssessmentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ac.Service.Create(c.Context(), actor, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Assessment created", out)
}

func (ac *AssessmentController) Update(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.AssessmentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ac.Service.Update(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Assessment updated", out)
}

func (ac *AssessmentController) Delete(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	if err := ac.Service.Delete(c.Context(), actor, c.Params("identity")); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Assessment deleted", nil)
}

func (ac *AssessmentController) ChangeStatus(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.StatusRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ac.Service.ChangeStatus(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Status updated", out)
}

/* ============ questions ============ */

func (ac *AssessmentController) Questions(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := ac.Service.Questions(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (ac *AssessmentController) CreateQuestion(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.QuestionRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ac.Service.CreateQuestion(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Question created", out)
}

func (ac *AssessmentController) UpdateQuestion(c *fiber.Ctx) error {
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
	out, err := ac.Service.UpdateQuestion(c.Context(), actor, c.Params("identity"), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Question updated", out)
}

func (ac *AssessmentController) DeleteQuestion(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "questionId")
	if err != nil {
		return err
	}
	if err := ac.Service.DeleteQuestion(c.Context(), actor, c.Params("identity"), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Question deleted", nil)
}

/* ============ eligibility ============ */

func (ac *AssessmentController) Eligibility(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := ac.Service.Eligibility(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (ac *AssessmentController) AddEligibility(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.EligibilityRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ac.Service.AddEligibility(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Eligibility added", out)
}

func (ac *AssessmentController) RemoveEligibility(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "eligibilityId")
	if err != nil {
		return err
	}
	if err := ac.Service.RemoveEligibility(c.Context(), actor, c.Params("identity"), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Eligibility removed", nil)
}

/* ============ exam ============ */

func (ac *AssessmentController) StartExam(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := ac.Service.StartExam(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Assessment started", out)
}

func (ac *AssessmentController) Submit(c *fiber.Ctx) error {
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
	out, err := ac.Service.Submit(c.Context(), actor, c.Params("identity"), id, req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Submission received", out)
}

func (ac *AssessmentController) Results(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "submitted_on", "desc", helper.AdminOpts)
	out, pg, err := ac.Service.Results(c.Context(), actor, c.Params("identity"), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (ac *AssessmentController) MyResults(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := ac.Service.MyAttempts(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (ac *AssessmentController) UserResults(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	userID, err := helper.ParseUUIDParam(c, "userId")
	if err != nil {
		return err
	}
	out, err := ac.Service.UserAttempts(c.Context(), actor, c.Params("identity"), userID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

// GET /assessments/:identity/results/export?format=xlsx|csv
func (ac *AssessmentController) ExportResults(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	t, name, err := ac.Service.ResultsTable(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return export.Send(c, t, c.Query("format", "xlsx"), name)
}
