package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"

	dto "academykit_backend/internals/features/users/users/dto"
	"academykit_backend/internals/features/users/users/service"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/export"
)

type UserController struct {
	Service *service.UserService
}

func NewUserController(svc *service.UserService) *UserController {
	return &UserController{Service: svc}
}

func parseListQuery(c *fiber.Ctx) (dto.ListQuery, error) {
	var f dto.ListQuery
	if err := c.QueryParser(&f); err != nil {
		return f, helper.ErrBadRequest("invalid query")
	}
	return f, helper.ValidateStruct(f)
}

// GET /users
func (uc *UserController) List(c *fiber.Ctx) error {
	f, err := parseListQuery(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "created_on", "desc", helper.AdminOpts)
	users, pg, err := uc.Service.List(c.Context(), f, p)
	if err != nil {
		return err
	}
	return helper.JsonList(c, "OK", dto.FromModels(users), pg)
}

// GET /users/:id (self or admin)
func (uc *UserController) Get(c *fiber.Ctx) error {
	me, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	if me.ID != id && !me.IsAdmin() {
		return helper.ErrForbidden("you may only view your own profile")
	}
	user, err := uc.Service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", dto.FromModel(user))
}

// POST /users
func (uc *UserController) Create(c *fiber.Ctx) error {
	me, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := uc.Service.Create(c.Context(), me, req)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "User created", dto.FromModel(user))
}

// PUT /users/:id
func (uc *UserController) Update(c *fiber.Ctx) error {
	me, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.ErrBadRequest("invalid request body")
	}
	user, err := uc.Service.Update(c.Context(), me, id, req)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "User updated", dto.FromModel(user))
}

// PATCH /users/:id/status
func (uc *UserController) UpdateStatus(c *fiber.Ctx) error {
	me, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := helper.BindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := uc.Service.UpdateStatus(c.Context(), me, id, req.Status)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Status updated", dto.FromModel(user))
}

// POST /users/bulk (multipart "file")
func (uc *UserController) BulkImport(c *fiber.Ctx) error {
	me, err := helper.GetCurrentUser(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.ErrFieldValidation("file", "csv file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return helper.ErrBadRequest("could not read upload")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return helper.ErrBadRequest("could not read upload")
	}

	users, err := uc.Service.BulkImport(c.Context(), me, data)
	if err != nil {
		return err
	}
	return helper.JsonCreated(c, "Users imported", fiber.Map{"count": len(users), "users": dto.FromModels(users)})
}

// GET /users/export
func (uc *UserController) Export(c *fiber.Ctx) error {
	f, err := parseListQuery(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "created_on", "desc", helper.ExportOpts)
	t, err := uc.Service.ExportTable(c.Context(), f, p)
	if err != nil {
		return err
	}
	return export.Send(c, t, "csv", "users")
}
