package service

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	dto "academykit_backend/internals/features/assessments/assessments/dto"
	model "academykit_backend/internals/features/assessments/assessments/model"
	"academykit_backend/internals/features/assessments/grading"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/metrics"
)

// storedAnswer is one entry of the submission's answers column.
type storedAnswer struct {
	QuestionID        uuid.UUID   `json:"question_id"`
	SelectedOptionIDs []uuid.UUID `json:"selected_option_ids"`
	IsCorrect         bool        `json:"is_correct"`
}

func examQuestions(rows []model.AssessmentQuestionModel) []dto.ExamQuestion {
	out := make([]dto.ExamQuestion, len(rows))
	for i, q := range rows {
		eq := dto.ExamQuestion{ID: q.ID, Name: q.Name, Type: q.Type, Description: q.Description, Hints: q.Hints, Options: make([]dto.ExamOption, len(q.Options))}
		for j, o := range q.Options {
			eq.Options[j] = dto.ExamOption{ID: o.ID, Option: o.Option}
		}
		out[i] = eq
	}
	return out
}

func closeLate(ctx context.Context, db *gorm.DB, sub *model.AssessmentSubmissionModel, now time.Time) error {
	msg := grading.ErrTimeExceeded
	sub.EndTime, sub.IsSubmissionError, sub.SubmissionError = &now, true, &msg
	return db.WithContext(ctx).Model(sub).Updates(map[string]any{
		"end_time":            now,
		"is_submission_error": true,
		"submission_error":    msg,
		"updated_on":          now,
	}).Error
}

// takeable loads an assessment the caller may sit right now.
func (s *AssessmentService) takeable(ctx context.Context, actor helper.CurrentUser, identity string, now time.Time) (*model.AssessmentModel, error) {
	a, eligible, err := s.loadVisible(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	if a.Status != constants.StatusPublished || !a.IsActive {
		return nil, helper.ErrBadRequest("assessment is not published")
	}
	if !eligible {
		return nil, helper.ErrForbidden("you are not eligible for this assessment")
	}
	if !grading.WithinWindow(a.StartDate, a.EndDate, now) {
		return nil, helper.ErrBadRequest("the assessment is not open at this time")
	}
	return a, nil
}

// StartExam opens an attempt, or resumes the one still running.
func (s *AssessmentService) StartExam(ctx context.Context, actor helper.CurrentUser, identity string) (*dto.ExamResponse, error) {
	now := s.now().UTC()
	a, err := s.takeable(ctx, actor, identity, now)
	if err != nil {
		return nil, err
	}
	questions, err := loadQuestions(ctx, s.DB, a.ID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, helper.ErrBadRequest("the assessment has no questions yet")
	}

	var open model.AssessmentSubmissionModel
	res := s.DB.WithContext(ctx).Where("assessment_id = ? AND user_id = ? AND end_time IS NULL", a.ID, actor.ID).
		Order("start_time DESC").Limit(1).Find(&open)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		if grading.StillOpen(open.StartTime, a.Duration, now) {
			return examResponse(&open, a.Duration, true, examQuestions(questions)), nil
		}
		if err := closeLate(ctx, s.DB, &open, now); err != nil {
			return nil, err
		}
	}

	var used int64
	if err := s.DB.WithContext(ctx).Model(&model.AssessmentSubmissionModel{}).
		Where("assessment_id = ? AND user_id = ?", a.ID, actor.ID).Count(&used).Error; err != nil {
		return nil, err
	}
	if !grading.CanAttempt(int(used), a.Retakes) {
		return nil, helper.ErrConflict("no attempts left for this assessment")
	}
	sub := &model.AssessmentSubmissionModel{AssessmentID: a.ID, UserID: actor.ID, StartTime: now, Audit: helper.NewAudit(actor.ID)}
	if err := s.DB.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	log.Debug().Str("assessment_id", a.ID.String()).Str("user_id", actor.ID.String()).Msg("[ASSESSMENT] attempt started")
	return examResponse(sub, a.Duration, false, examQuestions(questions)), nil
}

func examResponse(sub *model.AssessmentSubmissionModel, duration int, resumed bool, qs []dto.ExamQuestion) *dto.ExamResponse {
	out := &dto.ExamResponse{SubmissionID: sub.ID, StartTime: sub.StartTime, Duration: duration, Resumed: resumed, Questions: qs}
	if d := grading.Deadline(sub.StartTime, duration); !d.IsZero() {
		out.Deadline = &d
	}
	return out
}

// Submit grades an attempt with one mark per question and no negative marking.
func (s *AssessmentService) Submit(ctx context.Context, actor helper.CurrentUser, identity string, submissionID uuid.UUID, req dto.SubmitRequest) (*dto.SubmitResponse, error) {
	a, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	var sub model.AssessmentSubmissionModel
	if err := s.DB.WithContext(ctx).Where("id = ? AND assessment_id = ?", submissionID, a.ID).Take(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("submission not found")
		}
		return nil, err
	}
	if sub.UserID != actor.ID {
		return nil, helper.ErrForbidden("this submission belongs to another user")
	}
	if sub.EndTime != nil {
		return nil, helper.ErrConflict("submission is already closed")
	}

	now := s.now().UTC()
	if grading.IsLate(sub.StartTime, a.Duration, now) {
		if err := closeLate(ctx, s.DB, &sub, now); err != nil {
			return nil, err
		}
		return &dto.SubmitResponse{SubmissionID: sub.ID, IsSubmissionError: true, SubmissionError: grading.ErrTimeExceeded}, nil
	}

	questions, err := loadQuestions(ctx, s.DB, a.ID)
	if err != nil {
		return nil, err
	}
	gq := make([]grading.Question, len(questions))
	for i, q := range questions {
		gq[i] = grading.Question{ID: q.ID, Type: q.Type, Options: make([]grading.Option, len(q.Options))}
		for j, o := range q.Options {
			gq[i].Options[j] = grading.Option{ID: o.ID, IsCorrect: o.IsCorrect}
		}
	}
	result, err := grading.Grade(gq, req.ToAnswers(), grading.Scheme{MarkPerQuestion: 1, PassingWeightage: a.Weightage})
	if err != nil {
		return nil, err
	}

	selected := make(map[uuid.UUID][]uuid.UUID, len(req.Answers))
	for _, ans := range req.Answers {
		selected[ans.AssessmentQuestionID] = ans.SelectedOptionIDs
	}
	stored := make([]storedAnswer, 0, len(result.Questions))
	for _, qr := range result.Questions {
		if qr.Answered {
			stored = append(stored, storedAnswer{QuestionID: qr.QuestionID, SelectedOptionIDs: selected[qr.QuestionID], IsCorrect: qr.IsCorrect})
		}
	}
	answers, err := sonic.Marshal(stored)
	if err != nil {
		return nil, helper.ErrService("failed to encode answers", err)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&sub).Updates(map[string]any{
			"end_time":   now,
			"answers":    datatypes.JSON(answers),
			"updated_by": actor.ID,
			"updated_on": now,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&model.AssessmentResultModel{
			AssessmentID:           a.ID,
			AssessmentSubmissionID: sub.ID,
			UserID:                 actor.ID,
			TotalMark:              result.TotalMark,
			ObtainedMark:           result.ObtainedMark,
			Percentage:             result.Percentage,
			IsPassed:               result.IsPassed,
			Audit:                  helper.NewAudit(actor.ID),
		}).Error
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveGrading("assessment", result.IsPassed)
	log.Info().Str("assessment_id", a.ID.String()).Str("user_id", actor.ID.String()).
		Float64("percentage", result.Percentage).Bool("passed", result.IsPassed).Msg("[ASSESSMENT] graded")
	return &dto.SubmitResponse{
		SubmissionID: sub.ID,
		TotalMark:    result.TotalMark,
		ObtainedMark: result.ObtainedMark,
		Percentage:   result.Percentage,
		IsPassed:     result.IsPassed,
	}, nil
}

// CloseStaleAssessmentSubmissions is the assessment twin of the exam sweep.
func CloseStaleAssessmentSubmissions(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(`
		UPDATE assessment_submissions s
		SET end_time = ?, is_submission_error = true, submission_error = ?, updated_on = ?
		FROM assessments a
		WHERE a.id = s.assessment_id
		  AND s.end_time IS NULL
		  AND a.duration > 0
		  AND s.start_time + a.duration * INTERVAL '1 minute' + ? * INTERVAL '1 second' < ?`,
		now, grading.ErrTimeExceeded, now, int(grading.Grace/time.Second), now)
	return res.RowsAffected, res.Error
}
