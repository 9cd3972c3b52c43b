package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	dto "academykit_backend/internals/features/users/departments/dto"
	"academykit_backend/internals/features/users/departments/service"
	userDTO "academykit_backend/internals/features/users/users/dto"
	helper "academykit_backend/internals/helpers"
)

type DepartmentController struct {
	Service *service.DepartmentService
}

func NewDepartmentController(svc *service.DepartmentService) *DepartmentController {
	return &DepartmentController{Service: svc}
}

// GET /departments?is_active=
func (dc *DepartmentController) List(c *fiber.Ctx) error {
	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return helper.ErrFieldValidation("is_active", "is_active must be true or false")
		}
		isActive = &b
	}
	p := helper.ParseFiber(c, "created_on", "desc", helper.DefaultOpts)
	rows, pg, err := dc.Service.List(c.Context(), isActive, p)
	if err != nil {
		return err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	counts, err := dc.Service.UserCounts(c.Context(), ids)
	if err != nil {
		return err
	}
	out := make([]dto.DepartmentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.FromModel(&rows[i], counts[rows[i].ID]))
	}
	return helper.JsonList(c, "OK", out, pg)
}

func (dc *DepartmentController) Get(c *fiber.Ctx) error {
	d, err := dc.Service.Get(c.Context(), c.Params("identity"))
	if err != nil {
		return err
	}
	counts, err := dc.Service.UserCounts(c.Context(), []uuid.UUID{d.ID})
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", dto.FromModel(d, counts[d.ID]))
}

func (dc *DepartmentController) Create(c *fiber.Ctx) error {
	by, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.DepartmentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := dc.Service.Create(c.Context(), by, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Department created", dto.FromModel(d, 0))
}

func (dc *DepartmentController) Update(c *fiber.Ctx) error {
	by, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.DepartmentRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := dc.Service.Update(c.Context(), by, c.Params("identity"), req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Department updated", dto.FromModel(d, 0))
}

func (dc *DepartmentController) Delete(c *fiber.Ctx) error {
	if err := dc.Service.Delete(c.Context(), c.Params("identity")); err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Department deleted", nil)
}

// GET /departments/:identity/users
func (dc *DepartmentController) Users(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "first_name", "asc", helper.DefaultOpts)
	users, pg, err := dc.Service.Users(c.Context(), c.Params("identity"), p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", userDTO.FromModels(users), pg)
}
