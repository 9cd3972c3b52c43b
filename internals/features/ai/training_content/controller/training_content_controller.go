package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/ai/training_content/dto"
	"academykit_backend/internals/features/ai/training_content/service"
	helper "academykit_backend/internals/helpers"
)

type TrainingContentController struct {
	Service *service.TrainingContentService
}

func NewTrainingContentController(svc *service.TrainingContentService) *TrainingContentController {
	return &TrainingContentController{Service: svc}
}

// POST /ai/training-content
func (tc *TrainingContentController) Generate(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.GenerateRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := tc.Service.Generate(c.UserContext(), actor, req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}
