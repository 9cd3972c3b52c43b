package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"academykit_backend/internals/features/assessments/grading"
	poolModel "academykit_backend/internals/features/assessments/question_pools/model"
	dto "academykit_backend/internals/features/assessments/question_sets/dto"
	model "academykit_backend/internals/features/assessments/question_sets/model"
	courseService "academykit_backend/internals/features/courses/courses/service"
	lessonModel "academykit_backend/internals/features/courses/lessons/model"
	helper "academykit_backend/internals/helpers"
)

type QuestionSetService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewQuestionSetService(db *gorm.DB) *QuestionSetService {
	return &QuestionSetService{DB: db, now: time.Now}
}

// setAccess ties a question set to the exam lesson and course that own it.
type setAccess struct {
	Set    *model.QuestionSetModel
	Lesson *lessonModel.LessonModel
	Course *courseService.Access
}

func (s *QuestionSetService) resolve(ctx context.Context, actor helper.CurrentUser, identity string) (*setAccess, error) {
	var qs model.QuestionSetModel
	err := helper.IdentityWhere(s.DB.WithContext(ctx), "id", "slug", identity).Where("NOT is_deleted").Take(&qs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("question set not found")
		}
		return nil, err
	}
	var l lessonModel.LessonModel
	if err := s.DB.WithContext(ctx).Where("question_set_id = ?", qs.ID).Take(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("question set not found")
		}
		return nil, err
	}
	a, err := courseService.ResolveAccess(ctx, s.DB, actor, l.CourseID.String())
	if err != nil {
		return nil, err
	}
	if !a.CanLearn() {
		return nil, helper.ErrForbidden("you are not enrolled in this course")
	}
	return &setAccess{Set: &qs, Lesson: &l, Course: a}, nil
}

func (s *QuestionSetService) resolveManage(ctx context.Context, actor helper.CurrentUser, identity string) (*setAccess, error) {
	sa, err := s.resolve(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	if !sa.Course.CanManage() {
		return nil, helper.ErrForbidden("only course teachers or admins can do this")
	}
	return sa, nil
}

func (s *QuestionSetService) hasSubmissions(ctx context.Context, setID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&model.QuestionSetSubmissionModel{}).Where("question_set_id = ?", setID).Count(&n).Error
	return n > 0, err
}

// Get describes a set together with the caller's attempts.
func (s *QuestionSetService) Get(ctx context.Context, actor helper.CurrentUser, identity string) (*dto.QuestionSetResponse, error) {
	sa, err := s.resolve(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	out := &dto.QuestionSetResponse{QuestionSetModel: *sa.Set, LessonID: &sa.Lesson.ID, CourseID: &sa.Lesson.CourseID}
	db := s.DB.WithContext(ctx)
	if err := db.Model(&model.QuestionSetQuestionModel{}).Where("question_set_id = ?", sa.Set.ID).Count(&out.QuestionCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.QuestionSetSubmissionModel{}).
		Where("question_set_id = ? AND user_id = ?", sa.Set.ID, actor.ID).Count(&out.AttemptsUsed).Error; err != nil {
		return nil, err
	}
	var passed int64
	if err := db.Model(&model.QuestionSetResultModel{}).
		Where("question_set_id = ? AND user_id = ? AND is_passed", sa.Set.ID, actor.ID).Count(&passed).Error; err != nil {
		return nil, err
	}
	out.IsPassed = passed > 0
	if left := int64(grading.AttemptsAllowed(sa.Set.AllowedRetake)) - out.AttemptsUsed; left > 0 {
		out.AttemptsLeft = left
	}
	return out, nil
}

// Questions is the teacher view with correct answers.
func (s *QuestionSetService) Questions(ctx context.Context, actor helper.CurrentUser, identity string) ([]dto.TeacherQuestion, error) {
	sa, err := s.resolveManage(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	rows, questions, err := loadSetQuestions(ctx, s.DB, sa.Set.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TeacherQuestion, 0, len(rows))
	for _, r := range rows {
		q := questions[r.QuestionID]
		if q == nil {
			continue
		}
		snap := snapshotOf(q)
		out = append(out, dto.TeacherQuestion{
			ID: r.ID, QuestionID: r.QuestionID, QuestionPoolQuestionID: r.QuestionPoolQuestionID,
			Order: r.Order, Name: snap.Name, Type: snap.Type, Options: snap.Options,
		})
	}
	return out, nil
}

// AddQuestions replaces the set's questions with the given pool questions, in order.
// Refused once anyone has started the set.
func (s *QuestionSetService) AddQuestions(ctx context.Context, actor helper.CurrentUser, identity string, req dto.AddQuestionsRequest) ([]dto.TeacherQuestion, error) {
	sa, err := s.resolveManage(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	started, err := s.hasSubmissions(ctx, sa.Set.ID)
	if err != nil {
		return nil, err
	}
	if started {
		return nil, helper.ErrConflict("question set already has submissions")
	}
	var links []poolModel.QuestionPoolQuestionModel
	if err := s.DB.WithContext(ctx).Where("id IN ?", req.QuestionPoolQuestionIDs).Find(&links).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]poolModel.QuestionPoolQuestionModel, len(links))
	for _, l := range links {
		byID[l.ID] = l
	}
	rows := make([]model.QuestionSetQuestionModel, 0, len(req.QuestionPoolQuestionIDs))
	seenQuestion := map[uuid.UUID]bool{}
	for i, id := range req.QuestionPoolQuestionIDs {
		l, ok := byID[id]
		if !ok {
			return nil, helper.ErrFieldValidation("question_pool_question_ids", "unknown question "+id.String())
		}
		if seenQuestion[l.QuestionID] {
			continue
		}
		seenQuestion[l.QuestionID] = true
		rows = append(rows, model.QuestionSetQuestionModel{
			QuestionSetID:          sa.Set.ID,
			QuestionID:             l.QuestionID,
			QuestionPoolQuestionID: l.ID,
			Order:                  i + 1,
			Audit:                  helper.NewAudit(actor.ID),
		})
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_set_id = ?", sa.Set.ID).Delete(&model.QuestionSetQuestionModel{}).Error; err != nil {
			return err
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Questions(ctx, actor, sa.Set.ID.String())
}

// loadSetQuestions returns the set rows in order plus their questions with options.
func loadSetQuestions(ctx context.Context, db *gorm.DB, setID uuid.UUID) ([]model.QuestionSetQuestionModel, map[uuid.UUID]*poolModel.QuestionModel, error) {
	var rows []model.QuestionSetQuestionModel
	if err := db.WithContext(ctx).Where("question_set_id = ?", setID).Order(`"order" ASC`).Find(&rows).Error; err != nil {
		return nil, nil, err
	}
	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.QuestionID
	}
	out := map[uuid.UUID]*poolModel.QuestionModel{}
	if len(ids) == 0 {
		return rows, out, nil
	}
	var questions []poolModel.QuestionModel
	if err := db.WithContext(ctx).
		Preload("Options", func(q *gorm.DB) *gorm.DB { return q.Order(`"order" ASC`) }).
		Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, nil, err
	}
	for i := range questions {
		out[questions[i].ID] = &questions[i]
	}
	return rows, out, nil
}

func snapshotOf(q *poolModel.QuestionModel) dto.Snapshot {
	snap := dto.Snapshot{Name: q.Name, Type: q.Type, Options: make([]dto.SnapshotOption, len(q.Options))}
	for i, o := range q.Options {
		snap.Options[i] = dto.SnapshotOption{ID: o.ID, Option: o.Option, IsCorrect: o.IsCorrect}
	}
	return snap
}
