package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/assessments/assignments/dto"
	"academykit_backend/internals/features/assessments/assignments/service"
	helper "academykit_backend/internals/helpers"
)

type AssignmentController struct {
	Service *service.AssignmentService
}

func NewAssignmentController(svc *service.AssignmentService) *AssignmentController {
	return &AssignmentController{Service: svc}
}

func (ac *AssignmentController) List(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := ac.Service.List(c.Context(), actor, c.Params("lessonIdentity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (ac *AssignmentController) Create(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.AssignmentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ac.Service.Create(c.Context(), actor, c.Params("lessonIdentity"), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Assignment created", out)
}

func (ac *AssignmentController) Update(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "assignmentId")
	if err != nil {
		return err
	}
	var req dto.AssignmentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ac.Service.Update(c.Context(), actor, c.Params("lessonIdentity"), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Assignment updated", out)
}

func (ac *AssignmentController) Delete(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "assignmentId")
	if err != nil {
		return err
	}
	if err := ac.Service.Delete(c.Context(), actor, c.Params("lessonIdentity"), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Assignment deleted", nil)
}

func (ac *AssignmentController) Submit(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.SubmitRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ac.Service.Submit(c.Context(), actor, c.Params("lessonIdentity"), req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Answers saved", out)
}

func (ac *AssignmentController) Submitters(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "submitted_on", "desc", helper.AdminOpts)
	out, pg, err := ac.Service.Submitters(c.Context(), actor, c.Params("lessonIdentity"), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (ac *AssignmentController) UserSubmission(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	userID, err := helper.ParseUUIDParam(c, "userId")
	if err != nil {
		return err
	}
	out, err := ac.Service.UserSubmission(c.Context(), actor, c.Params("lessonIdentity"), userID)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (ac *AssignmentController) Review(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.ReviewRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := ac.Service.Review(c.Context(), actor, c.Params("lessonIdentity"), req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Review saved", out)
}
