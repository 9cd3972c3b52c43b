package route

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	"academykit_backend/internals/features/ai/training_content/controller"
	"academykit_backend/internals/features/ai/training_content/service"
	"academykit_backend/internals/middlewares"
	"academykit_backend/internals/middlewares/authz"
)

func TrainingContentRoutes(r fiber.Router, a *container.App) {
	ctl := controller.NewTrainingContentController(service.NewTrainingContentService(a.OpenAI))
	r.Post("/ai/training-content",
		a.Authz.Require("ai", authz.ActWrite),
		middlewares.UserRateLimiter(10, time.Minute),
		ctl.Generate,
	)
}
