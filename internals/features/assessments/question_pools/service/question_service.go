package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	dto "academykit_backend/internals/features/assessments/question_pools/dto"
	model "academykit_backend/internals/features/assessments/question_pools/model"
	questionSetModel "academykit_backend/internals/features/assessments/question_sets/model"
	helper "academykit_backend/internals/helpers"
)

type QuestionService struct {
	DB *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService { return &QuestionService{DB: db} }

// LockedQuestions returns which of the questions appear in a question set that already has submissions.
func LockedQuestions(ctx context.Context, db *gorm.DB, questionIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := map[uuid.UUID]bool{}
	if len(questionIDs) == 0 {
		return out, nil
	}
	var locked []uuid.UUID
	err := db.WithContext(ctx).Model(&questionSetModel.QuestionSetQuestionModel{}).
		Distinct("question_set_questions.question_id").
		Joins("JOIN question_set_submissions s ON s.question_set_id = question_set_questions.question_set_id").
		Where("question_set_questions.question_id IN ?", questionIDs).
		Pluck("question_set_questions.question_id", &locked).Error
	for _, id := range locked {
		out[id] = true
	}
	return out, err
}

func loadPoolQuestion(ctx context.Context, db *gorm.DB, poolID, poolQuestionID uuid.UUID) (*model.QuestionPoolQuestionModel, error) {
	var link model.QuestionPoolQuestionModel
	res := db.WithContext(ctx).
		Preload("Question").
		Preload("Question.Options", func(q *gorm.DB) *gorm.DB { return q.Order(`"order" ASC`) }).
		Where("id = ? AND question_pool_id = ?", poolQuestionID, poolID).Limit(1).Find(&link)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 || link.Question == nil {
		return nil, helper.ErrNotFound("question not found")
	}
	return &link, nil
}

var questionSortColumns = map[string]string{
	"order":      `question_pool_questions."order"`,
	"created_on": "question_pool_questions.created_on",
}

// List pages through a pool's questions, searching the text and filtering by tag.
func (s *QuestionService) List(ctx context.Context, actor helper.CurrentUser, poolIdentity, tag string, p helper.Params) ([]dto.QuestionResponse, helper.Pagination, error) {
	a, err := ResolvePool(ctx, s.DB, actor, poolIdentity)
	if err != nil {
		return nil, helper.Pagination{}, err
	}
	q := s.DB.WithContext(ctx).Model(&model.QuestionPoolQuestionModel{}).
		Joins("JOIN questions q ON q.id = question_pool_questions.question_id").
		Where("question_pool_questions.question_pool_id = ?", a.Pool.ID)
	if like := p.SearchLike(); like != "" {
		q = q.Where("LOWER(q.name) LIKE ?", like)
	}
	if tag != "" {
		q = q.Where("? = ANY(q.tags)", tag)
	}
	var rows []model.QuestionPoolQuestionModel
	pg, err := helper.Paginate(q, p, p.OrderClause(questionSortColumns, "order"), &rows)
	if err != nil {
		return nil, pg, err
	}
	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.QuestionID
	}
	var questions []model.QuestionModel
	if len(ids) > 0 {
		if err := s.DB.WithContext(ctx).
			Preload("Options", func(q *gorm.DB) *gorm.DB { return q.Order(`"order" ASC`) }).
			Where("id IN ?", ids).Find(&questions).Error; err != nil {
			return nil, pg, err
		}
	}
	byID := make(map[uuid.UUID]*model.QuestionModel, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}
	locked, err := LockedQuestions(ctx, s.DB, ids)
	if err != nil {
		return nil, pg, err
	}
	out := make([]dto.QuestionResponse, len(rows))
	for i, r := range rows {
		r.Question = byID[r.QuestionID]
		out[i] = dto.FromPoolQuestion(r, locked[r.QuestionID])
	}
	return out, pg, nil
}

func (s *QuestionService) Get(ctx context.Context, actor helper.CurrentUser, poolIdentity string, id uuid.UUID) (*dto.QuestionResponse, error) {
	a, err := ResolvePool(ctx, s.DB, actor, poolIdentity)
	if err != nil {
		return nil, err
	}
	link, err := loadPoolQuestion(ctx, s.DB, a.Pool.ID, id)
	if err != nil {
		return nil, err
	}
	locked, err := LockedQuestions(ctx, s.DB, []uuid.UUID{link.QuestionID})
	if err != nil {
		return nil, err
	}
	out := dto.FromPoolQuestion(*link, locked[link.QuestionID])
	return &out, nil
}

// Create adds a question with its options at the end of the pool.
func (s *QuestionService) Create(ctx context.Context, actor helper.CurrentUser, poolIdentity string, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := ResolvePool(ctx, s.DB, actor, poolIdentity)
	if err != nil {
		return nil, err
	}
	var poolQuestionID uuid.UUID
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		question := model.QuestionModel{
			Name: req.Name, Type: req.Type, Description: req.Description, Hints: req.Hints,
			Tags: pq.StringArray(req.Tags), Audit: helper.NewAudit(actor.ID),
		}
		if err := tx.Omit("Options").Create(&question).Error; err != nil {
			return err
		}
		opts := req.ToOptions(question.ID, actor.ID)
		if err := tx.Create(&opts).Error; err != nil {
			return err
		}
		var maxOrder int
		if err := tx.Model(&model.QuestionPoolQuestionModel{}).Where("question_pool_id = ?", a.Pool.ID).
			Select(`COALESCE(MAX("order"), 0)`).Scan(&maxOrder).Error; err != nil {
			return err
		}
		link := model.QuestionPoolQuestionModel{QuestionPoolID: a.Pool.ID, QuestionID: question.ID, Order: maxOrder + 1, Audit: helper.NewAudit(actor.ID)}
		if err := tx.Omit("Question").Create(&link).Error; err != nil {
			return err
		}
		poolQuestionID = link.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, a.Pool.ID.String(), poolQuestionID)
}

// Update replaces the question text and options. Questions already answered in a question set are locked.
func (s *QuestionService) Update(ctx context.Context, actor helper.CurrentUser, poolIdentity string, id uuid.UUID, req dto.QuestionRequest) (*dto.QuestionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := ResolvePool(ctx, s.DB, actor, poolIdentity)
	if err != nil {
		return nil, err
	}
	link, err := loadPoolQuestion(ctx, s.DB, a.Pool.ID, id)
	if err != nil {
		return nil, err
	}
	locked, err := LockedQuestions(ctx, s.DB, []uuid.UUID{link.QuestionID})
	if err != nil {
		return nil, err
	}
	if locked[link.QuestionID] {
		return nil, helper.ErrConflict("question is used in a question set with submissions and cannot be edited")
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		question := link.Question
		question.Name, question.Type = req.Name, req.Type
		question.Description, question.Hints = req.Description, req.Hints
		question.Tags = pq.StringArray(req.Tags)
		question.Touch(actor.ID)
		if err := tx.Omit("Options").Save(question).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.QuestionOptionModel{}).Error; err != nil {
			return err
		}
		opts := req.ToOptions(question.ID, actor.ID)
		return tx.Create(&opts).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, a.Pool.ID.String(), id)
}

// Delete removes a question that no question set references.
func (s *QuestionService) Delete(ctx context.Context, actor helper.CurrentUser, poolIdentity string, id uuid.UUID) error {
	a, err := ResolvePool(ctx, s.DB, actor, poolIdentity)
	if err != nil {
		return err
	}
	link, err := loadPoolQuestion(ctx, s.DB, a.Pool.ID, id)
	if err != nil {
		return err
	}
	var used int64
	if err := s.DB.WithContext(ctx).Model(&questionSetModel.QuestionSetQuestionModel{}).
		Where("question_pool_question_id = ?", link.ID).Count(&used).Error; err != nil {
		return err
	}
	if used > 0 {
		return helper.ErrConflict("question is used in a question set")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.QuestionPoolQuestionModel{}, "id = ?", link.ID).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", link.QuestionID).Delete(&model.QuestionOptionModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.QuestionModel{}, "id = ?", link.QuestionID).Error
	})
}
