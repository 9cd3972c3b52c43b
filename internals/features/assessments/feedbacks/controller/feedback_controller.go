package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/assessments/feedbacks/dto"
	"academykit_backend/internals/features/assessments/feedbacks/service"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/export"
)

type FeedbackController struct {
	Service *service.FeedbackService
}

func NewFeedbackController(svc *service.FeedbackService) *FeedbackController {
	return &FeedbackController{Service: svc}
}

func (fc *FeedbackController) List(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := fc.Service.List(c.Context(), actor, c.Params("lessonIdentity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (fc *FeedbackController) Create(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.FeedbackRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := fc.Service.Create(c.Context(), actor, c.Params("lessonIdentity"), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Feedback created", out)
}

func (fc *FeedbackController) Update(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "feedbackId")
	if err != nil {
		return err
	}
	var req dto.FeedbackRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := fc.Service.Update(c.Context(), actor, c.Params("lessonIdentity"), id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Feedback updated", out)
}

func (fc *FeedbackController) Delete(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "feedbackId")
	if err != nil {
		return err
	}
	if err := fc.Service.Delete(c.Context(), actor, c.Params("lessonIdentity"), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Feedback deleted", nil)
}

func (fc *FeedbackController) Submit(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.SubmitRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := fc.Service.Submit(c.Context(), actor, c.Params("lessonIdentity"), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Feedback submitted", out)
}

// GET /lessons/:lessonIdentity/feedbacks/export?format=csv|xlsx
func (fc *FeedbackController) Export(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	t, name, err := fc.Service.ExportTable(c.Context(), actor, c.Params("lessonIdentity"))
	if err != nil {
		return err
	}
	return export.Send(c, t, c.Query("format", "csv"), name)
}
