package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"academykit_backend/internals/constants"
	dto "academykit_backend/internals/features/assessments/assignments/dto"
	model "academykit_backend/internals/features/assessments/assignments/model"
	courseService "academykit_backend/internals/features/courses/courses/service"
	lessonModel "academykit_backend/internals/features/courses/lessons/model"
	lessonService "academykit_backend/internals/features/courses/lessons/service"
	notify "academykit_backend/internals/features/notifications/notifications/service"
	helper "academykit_backend/internals/helpers"
)

type AssignmentService struct {
	DB *gorm.DB
}

func NewAssignmentService(db *gorm.DB) *AssignmentService {
	return &AssignmentService{DB: db}
}

type lessonAccess struct {
	Lesson *lessonModel.LessonModel
	Course *courseService.Access
}

func (s *AssignmentService) resolve(ctx context.Context, actor helper.CurrentUser, identity string) (*lessonAccess, error) {
	l, err := lessonService.LoadByIdentity(ctx, s.DB, identity)
	if err != nil {
		return nil, err
	}
	if l.Type != constants.LessonAssignment {
		return nil, helper.ErrBadRequest("lesson is not an assignment")
	}
	a, err := courseService.ResolveAccess(ctx, s.DB, actor, l.CourseID.String())
	if err != nil {
		return nil, err
	}
	if !a.CanLearn() {
		return nil, helper.ErrForbidden("you are not enrolled in this course")
	}
	if !a.CanManage() && l.Status != constants.StatusPublished {
		return nil, helper.ErrNotFound("lesson not found")
	}
	return &lessonAccess{Lesson: l, Course: a}, nil
}

func (s *AssignmentService) resolveManage(ctx context.Context, actor helper.CurrentUser, identity string) (*lessonAccess, error) {
	la, err := s.resolve(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	if !la.Course.CanManage() {
		return nil, helper.ErrForbidden("only course teachers or admins can do this")
	}
	return la, nil
}

func (s *AssignmentService) assignments(ctx context.Context, lessonID uuid.UUID, activeOnly bool) ([]model.AssignmentModel, error) {
	q := s.DB.WithContext(ctx).
		Preload("Options", func(q *gorm.DB) *gorm.DB { return q.Order(`"order" ASC`) }).
		Where("lesson_id = ?", lessonID)
	if activeOnly {
		q = q.Where("is_active")
	}
	var rows []model.AssignmentModel
	err := q.Order(`"order" ASC`).Find(&rows).Error
	return rows, err
}

func (s *AssignmentService) review(ctx context.Context, lessonID, userID uuid.UUID) (*model.AssignmentReviewModel, error) {
	var r model.AssignmentReviewModel
	res := s.DB.WithContext(ctx).Where("lesson_id = ? AND user_id = ?", lessonID, userID).Limit(1).Find(&r)
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, res.Error
	}
	return &r, nil
}

func (s *AssignmentService) submissions(ctx context.Context, lessonID, userID uuid.UUID) ([]model.AssignmentSubmissionModel, error) {
	var rows []model.AssignmentSubmissionModel
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND assignment_id IN (?)", userID,
			s.DB.Model(&model.AssignmentModel{}).Select("id").Where("lesson_id = ?", lessonID)).
		Find(&rows).Error
	return rows, err
}

// List is the teacher view with answers, or the learner view with the caller's own
// submission and review.
func (s *AssignmentService) List(ctx context.Context, actor helper.CurrentUser, identity string) (any, error) {
	la, err := s.resolve(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	if la.Course.CanManage() {
		return s.assignments(ctx, la.Lesson.ID, false)
	}
	rows, err := s.assignments(ctx, la.Lesson.ID, true)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissions(ctx, la.Lesson.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	byAssignment := make(map[uuid.UUID]*model.AssignmentSubmissionModel, len(subs))
	for i := range subs {
		byAssignment[subs[i].AssignmentID] = &subs[i]
	}
	out := dto.LearnerView{Assignments: make([]dto.LearnerAssignment, len(rows))}
	for i, r := range rows {
		item := dto.LearnerAssignment{
			ID: r.ID, Name: r.Name, Type: r.Type, Description: r.Description, Hints: r.Hints, Order: r.Order,
			Options:    make([]dto.LearnerOption, len(r.Options)),
			Submission: byAssignment[r.ID],
		}
		for j, o := range r.Options {
			item.Options[j] = dto.LearnerOption{ID: o.ID, Option: o.Option}
		}
		out.Assignments[i] = item
	}
	if out.Review, err = s.review(ctx, la.Lesson.ID, actor.ID); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AssignmentService) Create(ctx context.Context, actor helper.CurrentUser, identity string, req dto.AssignmentRequest) (*model.AssignmentModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	la, err := s.resolveManage(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	a := &model.AssignmentModel{
		LessonID:    la.Lesson.ID,
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Hints:       req.Hints,
		IsActive:    true,
		Audit:       helper.NewAudit(actor.ID),
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var max int
		if err := tx.Model(&model.AssignmentModel{}).Where("lesson_id = ?", la.Lesson.ID).
			Select(`COALESCE(MAX("order"), 0)`).Scan(&max).Error; err != nil {
			return err
		}
		a.Order = max + 1
		if err := tx.Omit("Options").Create(a).Error; err != nil {
			return err
		}
		if len(req.Options) == 0 {
			return nil
		}
		a.Options = req.ToOptions(a.ID, actor.ID)
		return tx.Create(&a.Options).Error
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssignmentService) load(ctx context.Context, lessonID, id uuid.UUID) (*model.AssignmentModel, error) {
	var a model.AssignmentModel
	if err := s.DB.WithContext(ctx).Where("id = ? AND lesson_id = ?", id, lessonID).Take(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("assignment not found")
		}
		return nil, err
	}
	return &a, nil
}

func (s *AssignmentService) answered(ctx context.Context, assignmentID uuid.UUID) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&model.AssignmentSubmissionModel{}).Where("assignment_id = ?", assignmentID).Count(&n).Error
	return n > 0, err
}

// Update replaces the question and its options. Refused once anyone answered it.
func (s *AssignmentService) Update(ctx context.Context, actor helper.CurrentUser, identity string, id uuid.UUID, req dto.AssignmentRequest) (*model.AssignmentModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	la, err := s.resolveManage(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	a, err := s.load(ctx, la.Lesson.ID, id)
	if err != nil {
		return nil, err
	}
	if used, err := s.answered(ctx, a.ID); err != nil {
		return nil, err
	} else if used {
		return nil, helper.ErrConflict("assignment already has answers")
	}
	a.Name, a.Type, a.Description, a.Hints = req.Name, req.Type, req.Description, req.Hints
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	a.Touch(actor.ID)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options").Save(a).Error; err != nil {
			return err
		}
		if err := tx.Where("assignment_id = ?", a.ID).Delete(&model.AssignmentOptionModel{}).Error; err != nil {
			return err
		}
		if len(req.Options) == 0 {
			return nil
		}
		a.Options = req.ToOptions(a.ID, actor.ID)
		return tx.Create(&a.Options).Error
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssignmentService) Delete(ctx context.Context, actor helper.CurrentUser, identity string, id uuid.UUID) error {
	la, err := s.resolveManage(ctx, actor, identity)
	if err != nil {
		return err
	}
	a, err := s.load(ctx, la.Lesson.ID, id)
	if err != nil {
		return err
	}
	if used, err := s.answered(ctx, a.ID); err != nil {
		return err
	} else if used {
		return helper.ErrConflict("assignment already has answers")
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", a.ID).Delete(&model.AssignmentOptionModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(a).Error
	})
}

// Submit upserts the caller's answers, auto-checks choice answers and completes the
// lesson's watch history. Locked once a teacher has reviewed the lesson.
func (s *AssignmentService) Submit(ctx context.Context, actor helper.CurrentUser, identity string, req dto.SubmitRequest) ([]model.AssignmentSubmissionModel, error) {
	la, err := s.resolve(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	if la.Course.Enrollment == nil {
		return nil, helper.ErrForbidden("only enrolled trainees can submit")
	}
	if r, err := s.review(ctx, la.Lesson.ID, actor.ID); err != nil {
		return nil, err
	} else if r != nil {
		return nil, helper.ErrConflict("assignment has already been reviewed")
	}
	rows, err := s.assignments(ctx, la.Lesson.ID, true)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]model.AssignmentModel, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}

	now := time.Now().UTC()
	subs := make([]model.AssignmentSubmissionModel, 0, len(req.Answers))
	for _, ans := range req.Answers {
		a, ok := byID[ans.AssignmentID]
		if !ok {
			return nil, helper.ErrFieldValidation("answers", "unknown assignment "+ans.AssignmentID.String())
		}
		verdict, err := dto.CheckAnswer(a, ans)
		if err != nil {
			return nil, err
		}
		selected := make(pq.StringArray, len(ans.SelectedOptionIDs))
		for i, id := range ans.SelectedOptionIDs {
			selected[i] = id.String()
		}
		sub := model.AssignmentSubmissionModel{
			AssignmentID:      a.ID,
			UserID:            actor.ID,
			SelectedOptionIDs: selected,
			IsCorrect:         verdict,
			Audit:             helper.NewAudit(actor.ID),
		}
		if a.Type == constants.QuestionSubjective {
			sub.Answer = ans.Answer
		}
		subs = append(subs, sub)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "assignment_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"selected_option_ids": gorm.Expr("EXCLUDED.selected_option_ids"),
				"answer":              gorm.Expr("EXCLUDED.answer"),
				"is_correct":          gorm.Expr("EXCLUDED.is_correct"),
				"updated_by":          actor.ID,
				"updated_on":          now,
			}),
		}).Create(&subs).Error; err != nil {
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
	log.Debug().Str("lesson_id", la.Lesson.ID.String()).Str("user_id", actor.ID.String()).
		Int("answers", len(subs)).Msg("[ASSIGNMENT] submitted")
	return subs, nil
}

// Submitters lists the trainees who answered, with their auto-check tally and review.
func (s *AssignmentService) Submitters(ctx context.Context, actor helper.CurrentUser, identity string, p helper.Params) ([]dto.SubmitterRow, helper.Pagination, error) {
	la, err := s.resolveManage(ctx, actor, identity)
	if err != nil {
		return nil, helper.Pagination{}, err
	}
	agg := s.DB.Table("assignment_submissions s").
		Select(`s.user_id, COUNT(*) AS answered, COUNT(*) FILTER (WHERE s.is_correct) AS correct, MAX(s.updated_on) AS submitted_on`).
		Joins("JOIN assignments a ON a.id = s.assignment_id").
		Where("a.lesson_id = ?", la.Lesson.ID).Group("s.user_id")
	q := s.DB.WithContext(ctx).Table("(?) AS x", agg).
		Select(`x.user_id, TRIM(u.first_name || ' ' || u.last_name) AS name, u.email,
			x.answered, x.correct, x.submitted_on, r.mark, r.is_passed`).
		Joins("JOIN users u ON u.id = x.user_id").
		Joins("LEFT JOIN assignment_reviews r ON r.lesson_id = ? AND r.user_id = x.user_id", la.Lesson.ID)
	if like := p.SearchLike(); like != "" {
		q = q.Where("(LOWER(u.first_name || ' ' || u.last_name) LIKE ? OR LOWER(u.email) LIKE ?)", like, like)
	}
	var rows []dto.SubmitterRow
	pg, err := helper.Paginate(q, p, p.OrderClause(map[string]string{"name": "name", "submitted_on": "submitted_on"}, "submitted_on"), &rows)
	return rows, pg, err
}

// UserSubmission shows one trainee's answers next to the questions. Trainees may read their own.
func (s *AssignmentService) UserSubmission(ctx context.Context, actor helper.CurrentUser, identity string, userID uuid.UUID) (*dto.UserSubmission, error) {
	la, err := s.resolve(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	if userID != actor.ID && !la.Course.CanManage() {
		return nil, helper.ErrForbidden("you can only read your own submission")
	}
	out := &dto.UserSubmission{}
	if out.Assignments, err = s.assignments(ctx, la.Lesson.ID, false); err != nil {
		return nil, err
	}
	if out.Submissions, err = s.submissions(ctx, la.Lesson.ID, userID); err != nil {
		return nil, err
	}
	if out.Review, err = s.review(ctx, la.Lesson.ID, userID); err != nil {
		return nil, err
	}
	if out.Review == nil && !la.Course.CanManage() {
		// correct options stay hidden until the lesson is reviewed
		for i := range out.Assignments {
			for j := range out.Assignments[i].Options {
				out.Assignments[i].Options[j].IsCorrect = false
			}
		}
	}
	return out, nil
}

// Review upserts the teacher's mark for one trainee. A mark of PassMark or more passes the lesson.
func (s *AssignmentService) Review(ctx context.Context, actor helper.CurrentUser, identity string, req dto.ReviewRequest) (*model.AssignmentReviewModel, error) {
	la, err := s.resolveManage(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissions(ctx, la.Lesson.ID, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return nil, helper.ErrBadRequest("the trainee has not submitted this assignment")
	}
	now := time.Now().UTC()
	r := &model.AssignmentReviewModel{
		LessonID:   la.Lesson.ID,
		UserID:     req.UserID,
		Mark:       req.Mark,
		Review:     req.Review,
		ReviewerID: actor.ID,
		IsPassed:   req.Mark >= dto.PassMark,
		Audit:      helper.NewAudit(actor.ID),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "lesson_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"mark":        r.Mark,
				"review":      r.Review,
				"reviewer_id": r.ReviewerID,
				"is_passed":   r.IsPassed,
				"updated_by":  actor.ID,
				"updated_on":  now,
			}),
		}).Create(r).Error; err != nil {
			return err
		}
		if !r.IsPassed {
			return nil
		}
		_, err := courseService.RecordProgress(ctx, tx, courseService.LessonProgress{
			CourseID:    la.Lesson.CourseID,
			LessonID:    la.Lesson.ID,
			UserID:      req.UserID,
			IsCompleted: true,
			IsPassed:    true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	notify.NotifyOrLog(ctx, s.DB, []uuid.UUID{req.UserID}, "Assignment reviewed",
		"Your assignment in "+la.Course.Course.Name+" has been reviewed.")
	return r, nil
}
