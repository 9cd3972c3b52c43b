package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	authService "academykit_backend/internals/features/users/auth/service"
	deptModel "academykit_backend/internals/features/users/departments/model"
	dto "academykit_backend/internals/features/users/users/dto"
	model "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/export"
	"academykit_backend/internals/helpers/jobs"
	"academykit_backend/internals/helpers/mailer"
)

var userSortColumns = map[string]string{
	"created_on": "created_on",
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
	"role":       "role",
	"status":     "status",
}

type UserService struct {
	DB   *gorm.DB
	Jobs jobs.Enqueuer
}

func NewUserService(db *gorm.DB, q jobs.Enqueuer) *UserService {
	return &UserService{DB: db, Jobs: q}
}

func (s *UserService) query(ctx context.Context, f dto.ListQuery, p helper.Params) *gorm.DB {
	q := s.DB.WithContext(ctx).Model(&model.UserModel{})
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DepartmentID != "" {
		q = q.Where("department_id = ?", f.DepartmentID)
	}
	if like := p.SearchLike(); like != "" {
		q = q.Where(`(LOWER(first_name || ' ' || last_name) LIKE ? OR LOWER(email) LIKE ?)`, like, like)
	}
	return q
}

func (s *UserService) List(ctx context.Context, f dto.ListQuery, p helper.Params) ([]model.UserModel, helper.Pagination, error) {
	var users []model.UserModel
	pg, err := helper.Paginate(s.query(ctx, f, p), p, p.OrderClause(userSortColumns, "created_on"), &users)
	return users, pg, err
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.UserModel, error) {
	var user model.UserModel
	if err := s.DB.WithContext(ctx).Take(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// canAssignRole: admin and superadmin accounts can only be granted by a superadmin.
func canAssignRole(actor helper.CurrentUser, role string) bool {
	if constants.IsAdmin(role) {
		return actor.IsSuperAdmin()
	}
	return actor.IsAdmin()
}

func (s *UserService) ensureDepartment(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&deptModel.DepartmentModel{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helper.ErrFieldValidation("department_id", "department does not exist")
	}
	return nil
}

func (s *UserService) emailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error) {
	var n int64
	q := s.DB.WithContext(ctx).Unscoped().Model(&model.UserModel{}).Where("lower(email) = ?", strings.ToLower(email))
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

// Create stores the user with a random password and mails it to them.
func (s *UserService) Create(ctx context.Context, actor helper.CurrentUser, req dto.CreateUserRequest) (*model.UserModel, error) {
	if !canAssignRole(actor, req.Role) {
		return nil, helper.ErrForbidden("only the super admin may create admin accounts")
	}
	if err := s.ensureDepartment(ctx, req.DepartmentID); err != nil {
		return nil, err
	}
	taken, err := s.emailTaken(ctx, req.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, helper.ErrConflict("email is already registered")
	}

	user, password, err := newUserWithPassword(req, actor.ID)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("email is already registered")
		}
		return nil, helper.ErrService("could not create user", err)
	}
	s.mailCredentials(ctx, user, password)
	return user, nil
}

func newUserWithPassword(req dto.CreateUserRequest, by uuid.UUID) (*model.UserModel, string, error) {
	password, err := authService.RandomPassword(12)
	if err != nil {
		return nil, "", helper.ErrService("could not generate password", err)
	}
	hash, err := authService.HashPassword(password)
	if err != nil {
		return nil, "", helper.ErrService("could not hash password", err)
	}
	user := req.ToModel(hash)
	user.Audit = helper.NewAudit(by)
	return user, password, nil
}

func (s *UserService) mailCredentials(ctx context.Context, user *model.UserModel, password string) {
	mailer.Enqueue(ctx, s.Jobs, constants.MailUserCreate,
		mailer.Recipient{Name: user.FullName(), Email: user.Email},
		map[string]any{"Name": user.FullName(), "Email": user.Email, "Password": password})
}

// Update applies a partial update. Callers other than admins may only edit themselves and
// never their own role, status or email.
func (s *UserService) Update(ctx context.Context, actor helper.CurrentUser, id uuid.UUID, req dto.UpdateUserRequest) (*model.UserModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	self := actor.ID == id
	if !self && !actor.IsAdmin() {
		return nil, helper.ErrForbidden("you may only update your own profile")
	}
	if req.TouchesPrivileged() && (self || !actor.IsAdmin()) {
		return nil, helper.ErrForbidden("role, status and email can only be changed by an admin")
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !self && constants.IsAdmin(user.Role) && !actor.IsSuperAdmin() {
		return nil, helper.ErrForbidden("only the super admin may edit admin accounts")
	}
	if req.Role.Set() && !canAssignRole(actor, *req.Role.Value) {
		return nil, helper.ErrForbidden("only the super admin may grant admin roles")
	}
	if req.DepartmentID.Set() {
		if err := s.ensureDepartment(ctx, req.DepartmentID.Value); err != nil {
			return nil, err
		}
	}
	if req.Email.Set() {
		taken, err := s.emailTaken(ctx, *req.Email.Value, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, helper.ErrConflict("email is already registered")
		}
	}

	req.ApplyTo(user)
	user.Touch(actor.ID)
	if err := s.DB.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateStatus(ctx context.Context, actor helper.CurrentUser, id uuid.UUID, status string) (*model.UserModel, error) {
	if actor.ID == id {
		return nil, helper.ErrForbidden("you cannot change your own status")
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if constants.IsAdmin(user.Role) && !actor.IsSuperAdmin() {
		return nil, helper.ErrForbidden("only the super admin may change admin accounts")
	}
	user.Status = status
	user.Touch(actor.ID)
	if err := s.DB.WithContext(ctx).Select("status", "updated_by", "updated_on").Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BulkImport creates every row or none of them.
func (s *UserService) BulkImport(ctx context.Context, actor helper.CurrentUser, data []byte) ([]model.UserModel, error) {
	rows, err := export.ReadCSV(data)
	if err != nil {
		return nil, helper.ErrBadRequest(err.Error())
	}
	if len(rows) == 0 {
		return nil, helper.ErrBadRequest("csv has no rows")
	}

	var depts []deptModel.DepartmentModel
	if err := s.DB.WithContext(ctx).Find(&depts).Error; err != nil {
		return nil, err
	}
	deptIndex := make(map[string]uuid.UUID, len(depts)*2)
	for _, d := range depts {
		deptIndex[strings.ToLower(d.Name)] = d.ID
		deptIndex[strings.ToLower(d.Slug)] = d.ID
	}

	emails := make([]string, 0, len(rows))
	for _, r := range rows {
		emails = append(emails, strings.ToLower(r["email"]))
	}
	var existing []string
	if err := s.DB.WithContext(ctx).Unscoped().Model(&model.UserModel{}).
		Where("lower(email) IN ?", emails).Pluck("lower(email)", &existing).Error; err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(existing))
	for _, e := range existing {
		taken[e] = true
	}

	reqs, rowErrs := ValidateImportRows(rows, taken, deptIndex, actor)
	if len(rowErrs) > 0 {
		fields := make(map[string][]string, len(rowErrs))
		for _, re := range rowErrs {
			fields["row "+strconv.Itoa(re.Row)] = re.Errors
		}
		return nil, helper.ErrValidation(fields)
	}

	users := make([]model.UserModel, 0, len(reqs))
	passwords := make([]string, 0, len(reqs))
	for _, req := range reqs {
		u, pw, err := newUserWithPassword(req, actor.ID)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
		passwords = append(passwords, pw)
	}
	if err := s.DB.WithContext(ctx).CreateInBatches(&users, 100).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("one of the emails is already registered")
		}
		return nil, helper.ErrService("could not import users", err)
	}
	for i := range users {
		s.mailCredentials(ctx, &users[i], passwords[i])
	}
	return users, nil
}

// ValidateImportRows checks CSV rows; rows are numbered from 1 after the header.
func ValidateImportRows(rows []map[string]string, taken map[string]bool, departments map[string]uuid.UUID, actor helper.CurrentUser) ([]dto.CreateUserRequest, []dto.BulkImportError) {
	var (
		out  []dto.CreateUserRequest
		errs []dto.BulkImportError
		seen = map[string]int{}
	)
	for i, r := range rows {
		rowNo := i + 1
		req := dto.CreateUserRequest{
			FirstName:    r["first_name"],
			MiddleName:   helper.StrPtr(r["middle_name"]),
			LastName:     r["last_name"],
			Email:        r["email"],
			MobileNumber: helper.StrPtr(r["mobile"]),
			Role:         r["role"],
		}
		if req.Role == "" {
			req.Role = constants.RoleTrainee
		}
		req.Normalize()

		var msgs []string
		if err := helper.ValidateStruct(req); err != nil {
			for _, m := range helper.Classify(err).Fields {
				msgs = append(msgs, m...)
			}
		}
		if req.Email != "" {
			if prev, dup := seen[req.Email]; dup {
				msgs = append(msgs, "email duplicates row "+strconv.Itoa(prev))
			} else {
				seen[req.Email] = rowNo
			}
			if taken[req.Email] {
				msgs = append(msgs, "email is already registered")
			}
		}
		if constants.IsValidRole(req.Role) && !canAssignRole(actor, req.Role) {
			msgs = append(msgs, "only the super admin may create admin accounts")
		}
		if dept := strings.ToLower(strings.TrimSpace(r["department"])); dept != "" {
			if id, ok := departments[dept]; ok {
				req.DepartmentID = &id
			} else if id, err := uuid.Parse(dept); err == nil && containsID(departments, id) {
				req.DepartmentID = &id
			} else {
				msgs = append(msgs, "department "+r["department"]+" does not exist")
			}
		}

		if len(msgs) > 0 {
			errs = append(errs, dto.BulkImportError{Row: rowNo, Email: req.Email, Errors: msgs})
			continue
		}
		out = append(out, req)
	}
	return out, errs
}

func containsID(m map[string]uuid.UUID, id uuid.UUID) bool {
	for _, v := range m {
		if v == id {
			return true
		}
	}
	return false
}

// ExportTable builds the CSV export of the filtered user list.
func (s *UserService) ExportTable(ctx context.Context, f dto.ListQuery, p helper.Params) (export.Table, error) {
	var users []model.UserModel
	if err := s.query(ctx, f, p).Order(p.OrderClause(userSortColumns, "created_on")).Limit(p.Limit()).Find(&users).Error; err != nil {
		return export.Table{}, err
	}
	t := export.Table{
		Sheet:   "Users",
		Headers: []string{"id", "first_name", "middle_name", "last_name", "email", "mobile", "role", "status", "department_id", "created_on"},
	}
	for _, u := range users {
		dept := ""
		if u.DepartmentID != nil {
			dept = u.DepartmentID.String()
		}
		created := u.CreatedOn
		t.Append(u.ID.String(), u.FirstName, helper.Deref(u.MiddleName), u.LastName, u.Email,
			helper.Deref(u.MobileNumber), u.Role, u.Status, dept, export.FormatTime(&created))
	}
	return t, nil
}
