package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	courseModel "academykit_backend/internals/features/courses/courses/model"
	dto "academykit_backend/internals/features/courses/levels/dto"
	model "academykit_backend/internals/features/courses/levels/model"
	helper "academykit_backend/internals/helpers"
)

// DefaultLevels are created by the seed command.
var DefaultLevels = []string{"Beginner", "Intermediate", "Advanced"}

type LevelService struct {
	DB *gorm.DB
}

func NewLevelService(db *gorm.DB) *LevelService { return &LevelService{DB: db} }

func (s *LevelService) List(ctx context.Context) ([]model.LevelModel, error) {
	var out []model.LevelModel
	err := s.DB.WithContext(ctx).Order("created_on ASC").Find(&out).Error
	return out, err
}

func (s *LevelService) Get(ctx context.Context, identity string) (*model.LevelModel, error) {
	var l model.LevelModel
	if err := helper.IdentityWhere(s.DB.WithContext(ctx), "id", "slug", identity).Take(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("level not found")
		}
		return nil, err
	}
	return &l, nil
}

func (s *LevelService) Create(ctx context.Context, by uuid.UUID, req dto.LevelRequest) (*model.LevelModel, error) {
	slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "levels", "slug", req.Name, nil, 0)
	if err != nil {
		return nil, err
	}
	l := &model.LevelModel{Name: req.Name, Slug: slug, Audit: helper.NewAudit(by)}
	if err := s.DB.WithContext(ctx).Create(l).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("level name already exists")
		}
		return nil, err
	}
	return l, nil
}

func (s *LevelService) Update(ctx context.Context, by uuid.UUID, identity string, req dto.LevelRequest) (*model.LevelModel, error) {
	l, err := s.Get(ctx, identity)
	if err != nil {
		return nil, err
	}
	if l.Name != req.Name {
		slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "levels", "slug", req.Name, helper.ExcludeID("id", l.ID), 0)
		if err != nil {
			return nil, err
		}
		l.Name, l.Slug = req.Name, slug
	}
	l.Touch(by)
	if err := s.DB.WithContext(ctx).Save(l).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("level name already exists")
		}
		return nil, err
	}
	return l, nil
}

func (s *LevelService) Delete(ctx context.Context, identity string) error {
	l, err := s.Get(ctx, identity)
	if err != nil {
		return err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&courseModel.CourseModel{}).Where("level_id = ?", l.ID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.ErrConflict("level is used by courses")
	}
	return s.DB.WithContext(ctx).Delete(l).Error
}

// Seed inserts DefaultLevels that are missing.
func (s *LevelService) Seed(ctx context.Context) error {
	for _, name := range DefaultLevels {
		var n int64
		if err := s.DB.WithContext(ctx).Model(&model.LevelModel{}).Where("name = ?", name).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		l := model.LevelModel{Name: name, Slug: helper.Slugify(name, 0)}
		if err := s.DB.WithContext(ctx).Create(&l).Error; err != nil {
			return err
		}
	}
	return nil
}
