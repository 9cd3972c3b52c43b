package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dto "academykit_backend/internals/features/assessments/assessments/dto"
	model "academykit_backend/internals/features/assessments/assessments/model"
	helper "academykit_backend/internals/helpers"
)

func (s *AssessmentService) locked(ctx context.Context, assessmentID uuid.UUID) error {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&model.AssessmentSubmissionModel{}).Where("assessment_id = ?", assessmentID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.ErrConflict("assessment already has submissions; questions are locked")
	}
	return nil
}

func loadQuestions(ctx context.Context, db *gorm.DB, assessmentID uuid.UUID) ([]model.AssessmentQuestionModel, error) {
	var rows []model.AssessmentQuestionModel
	err := db.WithContext(ctx).
		Preload("Options", func(q *gorm.DB) *gorm.DB { return q.Order(`"order" ASC`) }).
		Where("assessment_id = ?", assessmentID).Order(`"order" ASC`).Find(&rows).Error
	return rows, err
}

// Questions is the author view with correct answers.
func (s *AssessmentService) Questions(ctx context.Context, actor helper.CurrentUser, identity string) ([]model.AssessmentQuestionModel, error) {
	a, err := s.loadManage(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	return loadQuestions(ctx, s.DB, a.ID)
}

func (s *AssessmentService) CreateQuestion(ctx context.Context, actor helper.CurrentUser, identity string, req dto.QuestionRequest) (*model.AssessmentQuestionModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := s.loadManage(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	if err := s.locked(ctx, a.ID); err != nil {
		return nil, err
	}
	q := &model.AssessmentQuestionModel{
		AssessmentID: a.ID,
		Name:         req.Name,
		Type:         req.Type,
		Description:  req.Description,
		Hints:        req.Hints,
		Audit:        helper.NewAudit(actor.ID),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var max int
		if err := tx.Model(&model.AssessmentQuestionModel{}).Where("assessment_id = ?", a.ID).
			Select(`COALESCE(MAX("order"), 0)`).Scan(&max).Error; err != nil {
			return err
		}
		q.Order = max + 1
		if err := tx.Omit("Options").Create(q).Error; err != nil {
			return err
		}
		q.Options = req.ToOptions(q.ID, actor.ID)
		return tx.Create(&q.Options).Error
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *AssessmentService) question(ctx context.Context, assessmentID, id uuid.UUID) (*model.AssessmentQuestionModel, error) {
	var q model.AssessmentQuestionModel
	if err := s.DB.WithContext(ctx).Where("id = ? AND assessment_id = ?", id, assessmentID).Take(&q).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("question not found")
		}
		return nil, err
	}
	return &q, nil
}

// UpdateQuestion replaces the question text and its options.
func (s *AssessmentService) UpdateQuestion(ctx context.Context, actor helper.CurrentUser, identity string, id uuid.UUID, req dto.QuestionRequest) (*model.AssessmentQuestionModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := s.loadManage(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	if err := s.locked(ctx, a.ID); err != nil {
		return nil, err
	}
	q, err := s.question(ctx, a.ID, id)
	if err != nil {
		return nil, err
	}
	q.Name, q.Type, q.Description, q.Hints = req.Name, req.Type, req.Description, req.Hints
	q.Touch(actor.ID)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options").Save(q).Error; err != nil {
			return err
		}
		if err := tx.Where("assessment_question_id = ?", q.ID).Delete(&model.AssessmentOptionModel{}).Error; err != nil {
			return err
		}
		q.Options = req.ToOptions(q.ID, actor.ID)
		return tx.Create(&q.Options).Error
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (s *AssessmentService) DeleteQuestion(ctx context.Context, actor helper.CurrentUser, identity string, id uuid.UUID) error {
	a, err := s.loadManage(ctx, actor, identity)
	if err != nil {
		return err
	}
	if err := s.locked(ctx, a.ID); err != nil {
		return err
	}
	q, err := s.question(ctx, a.ID, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assessment_question_id = ?", q.ID).Delete(&model.AssessmentOptionModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(q).Error
	})
}
