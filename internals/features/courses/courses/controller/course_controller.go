package controller

import (
	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/courses/courses/dto"
	"academykit_backend/internals/features/courses/courses/service"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/export"
)

type CourseController struct {
	Service *service.CourseService
}

func NewCourseController(svc *service.CourseService) *CourseController {
	return &CourseController{Service: svc}
}

// GET /courses?status=&level_id=&group_id=&enrollment_status=
func (cc *CourseController) List(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var f dto.ListQuery
	if err := c.QueryParser(&f); err != nil {
		return helper.ErrBadRequest("invalid query parameters")
	}
	p := helper.ParseFiber(c, "created_on", "desc", helper.DefaultOpts)
	out, pg, err := cc.Service.List(c.Context(), actor, f, p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (cc *CourseController) Get(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := cc.Service.Detail(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (cc *CourseController) Create(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateCourseRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	course, err := cc.Service.Create(c.Context(), actor, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Course created", dto.FromModel(course))
}

func (cc *CourseController) Update(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrBadRequest("invalid request body")
	}
	course, err := cc.Service.Update(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Course updated", dto.FromModel(course))
}

func (cc *CourseController) ChangeStatus(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.ChangeStatusRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	course, err := cc.Service.ChangeStatus(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Course status updated", dto.FromModel(course))
}

func (cc *CourseController) Delete(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	if err := cc.Service.Delete(c.Context(), actor, c.Params("identity")); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Course deleted", nil)
}

func (cc *CourseController) Teachers(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := cc.Service.Teachers(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (cc *CourseController) AddTeacher(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.AddTeacherRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	out, err := cc.Service.AddTeacher(c.Context(), actor, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Teacher added", out)
}

func (cc *CourseController) RemoveTeacher(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "teacherId")
	if err != nil {
		return err
	}
	if err := cc.Service.RemoveTeacher(c.Context(), actor, c.Params("identity"), id); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Teacher removed", nil)
}

func (cc *CourseController) Enroll(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	e, err := cc.Service.Enroll(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Enrolled", dto.EnrollmentFromModel(e))
}

func (cc *CourseController) Statistics(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	out, err := cc.Service.Statistics(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (cc *CourseController) Enrollments(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "enrollment_date", "desc", helper.AdminOpts)
	out, pg, err := cc.Service.Enrollments(c.Context(), actor, c.Params("identity"), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", out, pg)
}

// GET /courses/:identity/enrollments/export?format=xlsx|csv
func (cc *CourseController) ExportEnrollments(c *fiber.Ctx) error {
	actor, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	t, name, err := cc.Service.EnrollmentsTable(c.Context(), actor, c.Params("identity"))
	if err != nil {
		return err
	}
	return export.Send(c, t, c.Query("format", "xlsx"), name)
}
