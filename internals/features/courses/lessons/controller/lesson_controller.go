package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/courses/lessons/dto"
	"academykit_backend/internals/features/courses/lessons/service"
	helper "academykit_backend/internals/helpers"
)

type LessonController struct {
	Service *service.LessonService
}

func NewLessonController(svc *service.LessonService) *LessonController {
	return &LessonController{Service: svc}
}

// GET /courses/:identity/lessons?section=
func (lc *LessonController) List(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := lc.Service.List(c.Context(), actor, c.Params("identity"), c.Query("section"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (lc *LessonController) Get(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := lc.Service.Get(c.Context(), actor, c.Params("identity"), c.Params("lessonIdentity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (lc *LessonController) Create(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.LessonRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := lc.Service.Create(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Lesson created", out)
}

func (lc *LessonController) Update(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.LessonRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := lc.Service.Update(c.Context(), actor, c.Params("identity"), c.Params("lessonIdentity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Lesson updated", out)
}

func (lc *LessonController) Delete(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	if err := lc.Service.Delete(c.Context(), actor, c.Params("identity"), c.Params("lessonIdentity")); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Lesson deleted", nil)
}

func (lc *LessonController) Reorder(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.ReorderRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	if err := lc.Service.Reorder(c.Context(), actor, c.Params("identity"), req); err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Lessons reordered", nil)
}

func (lc *LessonController) Watch(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.WatchRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := lc.Service.Watch(c.Context(), actor, c.Params("identity"), c.Params("lessonIdentity"), req)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "Progress saved", out)
}
