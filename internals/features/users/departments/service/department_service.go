package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dto "academykit_backend/internals/features/users/departments/dto"
	model "academykit_backend/internals/features/users/departments/model"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
)

var sortColumns = map[string]string{
	"created_on": "created_on",
	"name":       "name",
}

type DepartmentService struct {
	DB *gorm.DB
}

func NewDepartmentService(db *gorm.DB) *DepartmentService { return &DepartmentService{DB: db} }

func (s *DepartmentService) List(ctx context.Context, isActive *bool, p helper.Params) ([]model.DepartmentModel, helper.Pagination, error) {
	q := s.DB.WithContext(ctx).Model(&model.DepartmentModel{})
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}
	if like := p.SearchLike(); like != "" {
		q = q.Where("LOWER(name) LIKE ?", like)
	}
	var rows []model.DepartmentModel
	pg, err := helper.Paginate(q, p, p.OrderClause(sortColumns, "created_on"), &rows)
	return rows, pg, err
}

// UserCounts returns department id -> number of users.
func (s *DepartmentService) UserCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := map[uuid.UUID]int64{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		DepartmentID uuid.UUID
		N            int64
	}
	if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Select("department_id, COUNT(*) AS n").
		Where("department_id IN ?", ids).
		Group("department_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.DepartmentID] = r.N
	}
	return out, nil
}

func (s *DepartmentService) Get(ctx context.Context, identity string) (*model.DepartmentModel, error) {
	var d model.DepartmentModel
	if err := helper.IdentityWhere(s.DB.WithContext(ctx), "id", "slug", identity).Take(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("department not found")
		}
		return nil, err
	}
	return &d, nil
}

func (s *DepartmentService) nameTaken(ctx context.Context, name string, except uuid.UUID) (bool, error) {
	var n int64
	q := s.DB.WithContext(ctx).Model(&model.DepartmentModel{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if except != uuid.Nil {
		q = q.Where("id <> ?", except)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (s *DepartmentService) Create(ctx context.Context, by uuid.UUID, req dto.DepartmentRequest) (*model.DepartmentModel, error) {
	taken, err := s.nameTaken(ctx, req.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, helper.ErrConflict("department name already exists")
	}
	slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "departments", "slug", req.Name, nil, 0)
	if err != nil {
		return nil, err
	}
	d := &model.DepartmentModel{Name: req.Name, Slug: slug, IsActive: true, Audit: helper.NewAudit(by)}
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	if err := s.DB.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (s *DepartmentService) Update(ctx context.Context, by uuid.UUID, identity string, req dto.DepartmentRequest) (*model.DepartmentModel, error) {
	d, err := s.Get(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(d.Name, req.Name) {
		taken, err := s.nameTaken(ctx, req.Name, d.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, helper.ErrConflict("department name already exists")
		}
		slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "departments", "slug", req.Name, helper.ExcludeID("id", d.ID), 0)
		if err != nil {
			return nil, err
		}
		d.Slug = slug
	}
	d.Name = req.Name
	if req.IsActive != nil {
		d.IsActive = *req.IsActive
	}
	d.Touch(by)
	if err := s.DB.WithContext(ctx).Save(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// Delete is refused while any user still belongs to the department.
func (s *DepartmentService) Delete(ctx context.Context, identity string) error {
	d, err := s.Get(ctx, identity)
	if err != nil {
		return err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Unscoped().Model(&userModel.UserModel{}).Where("department_id = ?", d.ID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.ErrConflict("department still has users")
	}
	return s.DB.WithContext(ctx).Delete(d).Error
}

func (s *DepartmentService) Users(ctx context.Context, identity string, p helper.Params) ([]userModel.UserModel, helper.Pagination, error) {
	d, err := s.Get(ctx, identity)
	if err != nil {
		return nil, helper.Pagination{}, err
	}
	q := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).Where("department_id = ?", d.ID)
	if like := p.SearchLike(); like != "" {
		q = q.Where(`(LOWER(first_name || ' ' || last_name) LIKE ? OR LOWER(email) LIKE ?)`, like, like)
	}
	var users []userModel.UserModel
	pg, err := helper.Paginate(q, p, "first_name ASC", &users)
	return users, pg, err
}
