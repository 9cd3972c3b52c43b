package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	courseService "academykit_backend/internals/features/courses/courses/service"
	lessonModel "academykit_backend/internals/features/courses/lessons/model"
	dto "academykit_backend/internals/features/courses/sections/dto"
	model "academykit_backend/internals/features/courses/sections/model"
	helper "academykit_backend/internals/helpers"
)

type SectionService struct {
	DB *gorm.DB
}

func NewSectionService(db *gorm.DB) *SectionService { return &SectionService{DB: db} }

func (s *SectionService) List(ctx context.Context, actor helper.CurrentUser, courseIdentity string) ([]model.SectionModel, error) {
	a, err := courseService.RequireLearner(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return nil, err
	}
	var out []model.SectionModel
	err = s.DB.WithContext(ctx).Where("course_id = ? AND NOT is_deleted", a.Course.ID).
		Order(`"order" ASC, created_on ASC`).Find(&out).Error
	return out, err
}

// Load finds a live section of the course by id or slug.
func Load(ctx context.Context, db *gorm.DB, courseID uuid.UUID, identity string) (*model.SectionModel, error) {
	var sec model.SectionModel
	q := helper.IdentityWhere(db.WithContext(ctx), "id", "slug", identity).Where("course_id = ? AND NOT is_deleted", courseID)
	if err := q.Take(&sec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("section not found")
		}
		return nil, err
	}
	return &sec, nil
}

func (s *SectionService) Get(ctx context.Context, actor helper.CurrentUser, courseIdentity, identity string) (*model.SectionModel, error) {
	a, err := courseService.RequireLearner(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return nil, err
	}
	return Load(ctx, s.DB, a.Course.ID, identity)
}

// Create appends the section after the existing ones.
func (s *SectionService) Create(ctx context.Context, actor helper.CurrentUser, courseIdentity string, req dto.SectionRequest) (*model.SectionModel, error) {
	a, err := courseService.RequireManage(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return nil, err
	}
	sec := &model.SectionModel{CourseID: a.Course.ID, Name: req.Name, Description: req.Description, Audit: helper.NewAudit(actor.ID)}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxOrder int
		if err := tx.Model(&model.SectionModel{}).Where("course_id = ? AND NOT is_deleted", a.Course.ID).
			Select(`COALESCE(MAX("order"), 0)`).Scan(&maxOrder).Error; err != nil {
			return err
		}
		sec.Order = maxOrder + 1
		slug, err := helper.EnsureUniqueSlugCI(ctx, tx, "sections", "slug", req.Name, nil, 0)
		if err != nil {
			return err
		}
		sec.Slug = slug
		return tx.Create(sec).Error
	})
	if err != nil {
		return nil, err
	}
	return sec, nil
}

func (s *SectionService) Update(ctx context.Context, actor helper.CurrentUser, courseIdentity, identity string, req dto.SectionRequest) (*model.SectionModel, error) {
	a, err := courseService.RequireManage(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return nil, err
	}
	sec, err := Load(ctx, s.DB, a.Course.ID, identity)
	if err != nil {
		return nil, err
	}
	if sec.Name != req.Name {
		slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "sections", "slug", req.Name, helper.ExcludeID("id", sec.ID), 0)
		if err != nil {
			return nil, err
		}
		sec.Name, sec.Slug = req.Name, slug
	}
	sec.Description = req.Description
	sec.Touch(actor.ID)
	if err := s.DB.WithContext(ctx).Save(sec).Error; err != nil {
		return nil, err
	}
	return sec, nil
}

// Delete soft-deletes an empty section.
func (s *SectionService) Delete(ctx context.Context, actor helper.CurrentUser, courseIdentity, identity string) error {
	a, err := courseService.RequireManage(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return err
	}
	sec, err := Load(ctx, s.DB, a.Course.ID, identity)
	if err != nil {
		return err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&lessonModel.LessonModel{}).Where("section_id = ?", sec.ID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.ErrConflict("section still has lessons")
	}
	return s.DB.WithContext(ctx).Model(sec).Updates(map[string]any{
		"is_deleted": true, "updated_by": actor.ID, "updated_on": gorm.Expr("now()"),
	}).Error
}

// Reorder rewrites "order" as 1..n following ids. ids must list every live section exactly once.
func (s *SectionService) Reorder(ctx context.Context, actor helper.CurrentUser, courseIdentity string, req dto.ReorderRequest) error {
	a, err := courseService.RequireManage(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return err
	}
	var existing []uuid.UUID
	if err := s.DB.WithContext(ctx).Model(&model.SectionModel{}).
		Where("course_id = ? AND NOT is_deleted", a.Course.ID).Pluck("id", &existing).Error; err != nil {
		return err
	}
	if err := CheckReorder(existing, req.IDs); err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range req.IDs {
			if err := tx.Model(&model.SectionModel{}).Where("id = ?", id).
				Updates(map[string]any{"order": i + 1, "updated_by": actor.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CheckReorder requires ids to be a permutation of existing.
func CheckReorder(existing, ids []uuid.UUID) error {
	if len(existing) != len(ids) {
		return helper.ErrFieldValidation("ids", "ids must list every item exactly once")
	}
	known := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}
	for _, id := range ids {
		if !known[id] {
			return helper.ErrFieldValidation("ids", "ids must list every item exactly once")
		}
		delete(known, id)
	}
	return nil
}
