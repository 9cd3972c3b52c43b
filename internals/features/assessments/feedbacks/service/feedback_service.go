package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	dto "academykit_backend/internals/features/assessments/feedbacks/dto"
	model "academykit_backend/internals/features/assessments/feedbacks/model"
	courseService "academykit_backend/internals/features/courses/courses/service"
	lessonModel "academykit_backend/internals/features/courses/lessons/model"
	lessonService "academykit_backend/internals/features/courses/lessons/service"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/export"
)

type FeedbackService struct {
	DB *gorm.DB
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{DB: db}
}

type lessonAccess struct {
	Lesson *lessonModel.LessonModel
	Course *courseService.Access
}

func (s *FeedbackService) resolve(ctx context.Context, actor helper.CurrentUser, identity string, manage bool) (*lessonAccess, error) {
	l, err := lessonService.LoadByIdentity(ctx, s.DB, identity)
	if err != nil {
		return nil, err
	}
	if l.Type != constants.LessonFeedback {
		return nil, helper.ErrBadRequest("lesson is not a feedback lesson")
	}
	a, err := courseService.ResolveAccess(ctx, s.DB, actor, l.CourseID.String())
	if err != nil {
		return nil, err
	}
	switch {
	case manage && !a.CanManage():
		return nil, helper.ErrForbidden("only course teachers or admins can do this")
	case !a.CanLearn():
		return nil, helper.ErrForbidden("you are not enrolled in this course")
	case !a.CanManage() && l.Status != constants.StatusPublished:
		return nil, helper.ErrNotFound("lesson not found")
	}
	return &lessonAccess{Lesson: l, Course: a}, nil
}

func (s *FeedbackService) feedbacks(ctx context.Context, lessonID uuid.UUID, activeOnly bool) ([]model.FeedbackModel, error) {
	q := s.DB.WithContext(ctx).
		Preload("Options", func(q *gorm.DB) *gorm.DB { return q.Order(`"order" ASC`) }).
		Where("lesson_id = ?", lessonID)
	if activeOnly {
		q = q.Where("is_active")
	}
	var rows []model.FeedbackModel
	err := q.Order(`"order" ASC`).Find(&rows).Error
	return rows, err
}

func (s *FeedbackService) lessonFeedbackIDs(lessonID uuid.UUID) *gorm.DB {
	return s.DB.Model(&model.FeedbackModel{}).Select("id").Where("lesson_id = ?", lessonID)
}

// List returns the questions. Learners also get their answers.
func (s *FeedbackService) List(ctx context.Context, actor helper.CurrentUser, identity string) (*dto.LearnerView, error) {
	la, err := s.resolve(ctx, actor, identity, false)
	if err != nil {
		return nil, err
	}
	rows, err := s.feedbacks(ctx, la.Lesson.ID, !la.Course.CanManage())
	if err != nil {
		return nil, err
	}
	var subs []model.FeedbackSubmissionModel
	if err := s.DB.WithContext(ctx).Where("user_id = ? AND feedback_id IN (?)", actor.ID, s.lessonFeedbackIDs(la.Lesson.ID)).
		Find(&subs).Error; err != nil {
		return nil, err
	}
	mine := make(map[uuid.UUID]*model.FeedbackSubmissionModel, len(subs))
	for i := range subs {
		mine[subs[i].FeedbackID] = &subs[i]
	}
	out := &dto.LearnerView{Feedbacks: make([]dto.FeedbackView, len(rows)), IsSubmitted: len(subs) > 0}
	for i, r := range rows {
		out.Feedbacks[i] = dto.FeedbackView{FeedbackModel: r, Submission: mine[r.ID]}
	}
	return out, nil
}

func (s *FeedbackService) Create(ctx context.Context, actor helper.CurrentUser, identity string, req dto.FeedbackRequest) (*model.FeedbackModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	la, err := s.resolve(ctx, actor, identity, true)
	if err != nil {
		return nil, err
	}
	f := &model.FeedbackModel{LessonID: la.Lesson.ID, Name: req.Name, Type: req.Type, IsActive: true, Audit: helper.NewAudit(actor.ID)}
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var max int
		if err := tx.Model(&model.FeedbackModel{}).Where("lesson_id = ?", la.Lesson.ID).
			Select(`COALESCE(MAX("order"), 0)`).Scan(&max).Error; err != nil {
			return err
		}
		f.Order = max + 1
		if err := tx.Omit("Options").Create(f).Error; err != nil {
			return err
		}
		if len(req.Options) == 0 {
			return nil
		}
		f.Options = req.ToOptions(f.ID, actor.ID)
		return tx.Create(&f.Options).Error
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FeedbackService) loadAnswerable(ctx context.Context, lessonID, id uuid.UUID) (*model.FeedbackModel, error) {
	var f model.FeedbackModel
	if err := s.DB.WithContext(ctx).Where("id = ? AND lesson_id = ?", id, lessonID).Take(&f).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("feedback not found")
		}
		return nil, err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&model.FeedbackSubmissionModel{}).Where("feedback_id = ?", f.ID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, helper.ErrConflict("feedback already has responses")
	}
	return &f, nil
}

func (s *FeedbackService) Update(ctx context.Context, actor helper.CurrentUser, identity string, id uuid.UUID, req dto.FeedbackRequest) (*model.FeedbackModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	la, err := s.resolve(ctx, actor, identity, true)
	if err != nil {
		return nil, err
	}
	f, err := s.loadAnswerable(ctx, la.Lesson.ID, id)
	if err != nil {
		return nil, err
	}
	f.Name, f.Type = req.Name, req.Type
	if req.IsActive != nil {
		f.IsActive = *req.IsActive
	}
	f.Touch(actor.ID)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options").Save(f).Error; err != nil {
			return err
		}
		if err := tx.Where("feedback_id = ?", f.ID).Delete(&model.FeedbackOptionModel{}).Error; err != nil {
			return err
		}
		if len(req.Options) == 0 {
			return nil
		}
		f.Options = req.ToOptions(f.ID, actor.ID)
		return tx.Create(&f.Options).Error
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FeedbackService) Delete(ctx context.Context, actor helper.CurrentUser, identity string, id uuid.UUID) error {
	la, err := s.resolve(ctx, actor, identity, true)
	if err != nil {
		return err
	}
	f, err := s.loadAnswerable(ctx, la.Lesson.ID, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("feedback_id = ?", f.ID).Delete(&model.FeedbackOptionModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(f).Error
	})
}

// Submit stores the caller's answers once. Every active question must be answered.
// Submitting completes the lesson.
func (s *FeedbackService) Submit(ctx context.Context, actor helper.CurrentUser, identity string, req dto.SubmitRequest) ([]model.FeedbackSubmissionModel, error) {
	la, err := s.resolve(ctx, actor, identity, false)
	if err != nil {
		return nil, err
	}
	if la.Course.Enrollment == nil {
		return nil, helper.ErrForbidden("only enrolled trainees can submit feedback")
	}
	var done int64
	if err := s.DB.WithContext(ctx).Model(&model.FeedbackSubmissionModel{}).
		Where("user_id = ? AND feedback_id IN (?)", actor.ID, s.lessonFeedbackIDs(la.Lesson.ID)).Count(&done).Error; err != nil {
		return nil, err
	}
	if done > 0 {
		return nil, helper.ErrConflict("feedback already submitted")
	}
	rows, err := s.feedbacks(ctx, la.Lesson.ID, true)
	if err != nil {
		return nil, err
	}
	answers := make(map[uuid.UUID]dto.AnswerRequest, len(req.Answers))
	for _, a := range req.Answers {
		answers[a.FeedbackID] = a
	}
	subs := make([]model.FeedbackSubmissionModel, 0, len(rows))
	for _, f := range rows {
		a, ok := answers[f.ID]
		if !ok {
			return nil, helper.ErrFieldValidation("answers", "missing answer for "+f.Name)
		}
		if err := dto.CheckAnswer(f, a); err != nil {
			return nil, err
		}
		sub := model.FeedbackSubmissionModel{FeedbackID: f.ID, UserID: actor.ID, Audit: helper.NewAudit(actor.ID)}
		switch f.Type {
		case constants.QuestionRating:
			sub.Rating = a.Rating
		case constants.QuestionSubjective:
			sub.Answer = a.Answer
		default:
			sub.SelectedOptionIDs = make(pq.StringArray, len(a.SelectedOptionIDs))
			for i, id := range a.SelectedOptionIDs {
				sub.SelectedOptionIDs[i] = id.String()
			}
		}
		subs = append(subs, sub)
	}
	if len(subs) == 0 {
		return nil, helper.ErrBadRequest("this lesson has no feedback questions")
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&subs).Error; err != nil {
			if helper.IsUniqueViolation(err) {
				return helper.ErrConflict("feedback already submitted")
			}
			return err
		}
		_, err := courseService.RecordProgress(ctx, tx, courseService.LessonProgress{
			CourseID:    la.Lesson.CourseID,
			LessonID:    la.Lesson.ID,
			UserID:      actor.ID,
			IsCompleted: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Str("lesson_id", la.Lesson.ID.String()).Str("user_id", actor.ID.String()).Msg("[FEEDBACK] submitted")
	return subs, nil
}

// ExportTable flattens every response, one row per user and question.
func (s *FeedbackService) ExportTable(ctx context.Context, actor helper.CurrentUser, identity string) (export.Table, string, error) {
	la, err := s.resolve(ctx, actor, identity, true)
	if err != nil {
		return export.Table{}, "", err
	}
	rows, err := s.feedbacks(ctx, la.Lesson.ID, false)
	if err != nil {
		return export.Table{}, "", err
	}
	byID := make(map[uuid.UUID]model.FeedbackModel, len(rows))
	ids := make([]uuid.UUID, len(rows))
	for i, f := range rows {
		byID[f.ID] = f
		ids[i] = f.ID
	}
	var subs []model.FeedbackSubmissionModel
	if len(ids) > 0 {
		if err := s.DB.WithContext(ctx).Where("feedback_id IN ?", ids).Order("user_id, created_on").Find(&subs).Error; err != nil {
			return export.Table{}, "", err
		}
	}
	userIDs := make([]uuid.UUID, 0, len(subs))
	for _, sub := range subs {
		userIDs = append(userIDs, sub.UserID)
	}
	var users []userModel.UserModel
	if len(userIDs) > 0 {
		if err := s.DB.WithContext(ctx).Select("id", "first_name", "middle_name", "last_name", "email").Where("id IN ?", userIDs).Find(&users).Error; err != nil {
			return export.Table{}, "", err
		}
	}
	people := make(map[uuid.UUID]userModel.UserModel, len(users))
	for _, u := range users {
		people[u.ID] = u
	}

	t := export.Table{Sheet: "Feedback", Headers: []string{"Name", "Email", "Question", "Type", "Answer", "Submitted On"}}
	for _, sub := range subs {
		f := byID[sub.FeedbackID]
		u := people[sub.UserID]
		created := sub.CreatedOn
		t.Append(u.FullName(), u.Email, f.Name, f.Type, dto.AnswerText(f, sub), export.FormatTime(&created))
	}
	return t, la.Lesson.Slug + "-feedback", nil
}
