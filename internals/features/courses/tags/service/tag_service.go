package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	courseModel "academykit_backend/internals/features/courses/courses/model"
	dto "academykit_backend/internals/features/courses/tags/dto"
	model "academykit_backend/internals/features/courses/tags/model"
	helper "academykit_backend/internals/helpers"
)

type TagService struct {
	DB *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService { return &TagService{DB: db} }

func (s *TagService) List(ctx context.Context, p helper.Params) ([]dto.TagResponse, helper.Pagination, error) {
	q := s.DB.WithContext(ctx).Table("tags t").
		Select("t.id, t.name, t.slug, (SELECT COUNT(*) FROM course_tags ct WHERE ct.tag_id = t.id) AS course_count")
	if like := p.SearchLike(); like != "" {
		q = q.Where("LOWER(t.name) LIKE ?", like)
	}
	var out []dto.TagResponse
	pg, err := helper.Paginate(q, p, "t.name ASC", &out)
	return out, pg, err
}

func (s *TagService) Get(ctx context.Context, identity string) (*model.TagModel, error) {
	var t model.TagModel
	if err := helper.IdentityWhere(s.DB.WithContext(ctx), "id", "slug", identity).Take(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("tag not found")
		}
		return nil, err
	}
	return &t, nil
}

func (s *TagService) Create(ctx context.Context, by uuid.UUID, req dto.TagRequest) (*model.TagModel, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&model.TagModel{}).Where("LOWER(name) = ?", strings.ToLower(req.Name)).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, helper.ErrConflict("tag already exists")
	}
	slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "tags", "slug", req.Name, nil, 0)
	if err != nil {
		return nil, err
	}
	t := &model.TagModel{Name: req.Name, Slug: slug, Audit: helper.NewAudit(by)}
	if err := s.DB.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TagService) Update(ctx context.Context, by uuid.UUID, identity string, req dto.TagRequest) (*model.TagModel, error) {
	t, err := s.Get(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(t.Name, req.Name) {
		var n int64
		if err := s.DB.WithContext(ctx).Model(&model.TagModel{}).
			Where("LOWER(name) = ? AND id <> ?", strings.ToLower(req.Name), t.ID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, helper.ErrConflict("tag already exists")
		}
		slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "tags", "slug", req.Name, helper.ExcludeID("id", t.ID), 0)
		if err != nil {
			return nil, err
		}
		t.Slug = slug
	}
	t.Name = req.Name
	t.Touch(by)
	if err := s.DB.WithContext(ctx).Save(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// Delete also detaches the tag from every course.
func (s *TagService) Delete(ctx context.Context, identity string) error {
	t, err := s.Get(ctx, identity)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", t.ID).Delete(&courseModel.CourseTagModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(t).Error
	})
}
