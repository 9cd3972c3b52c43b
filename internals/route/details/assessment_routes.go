package details

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	assessmentRoute "academykit_backend/internals/features/assessments/assessments/route"
	assignmentRoute "academykit_backend/internals/features/assessments/assignments/route"
	feedbackRoute "academykit_backend/internals/features/assessments/feedbacks/route"
	poolRoute "academykit_backend/internals/features/assessments/question_pools/route"
	setRoute "academykit_backend/internals/features/assessments/question_sets/route"
)

func AssessmentRoutes(private fiber.Router, a *container.App) {
	poolRoute.QuestionPoolRoutes(private, a)
	setRoute.QuestionSetRoutes(private, a)
	assessmentRoute.AssessmentRoutes(private, a)
	assignmentRoute.AssignmentRoutes(private, a)
	feedbackRoute.FeedbackRoutes(private, a)
}
