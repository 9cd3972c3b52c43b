package details

import (
	"github.com/gofiber/fiber/v2"

	"academykit_backend/internals/container"
	courseRoute "academykit_backend/internals/features/courses/courses/route"
	lessonRoute "academykit_backend/internals/features/courses/lessons/route"
	levelRoute "academykit_backend/internals/features/courses/levels/route"
	sectionRoute "academykit_backend/internals/features/courses/sections/route"
	tagRoute "academykit_backend/internals/features/courses/tags/route"
)

func CourseRoutes(private fiber.Router, a *container.App) {
	levelRoute.LevelRoutes(private, a)
	tagRoute.TagRoutes(private, a)
	courseRoute.CourseRoutes(private, a)
	sectionRoute.SectionRoutes(private, a)
	lessonRoute.LessonRoutes(private, a)
}
