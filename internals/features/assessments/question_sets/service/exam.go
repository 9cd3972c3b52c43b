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

	"academykit_backend/internals/features/assessments/grading"
	poolModel "academykit_backend/internals/features/assessments/question_pools/model"
	dto "academykit_backend/internals/features/assessments/question_sets/dto"
	model "academykit_backend/internals/features/assessments/question_sets/model"
	courseService "academykit_backend/internals/features/courses/courses/service"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/metrics"
)

func examQuestions(rows []model.QuestionSetQuestionModel, questions map[uuid.UUID]*poolModel.QuestionModel) []dto.ExamQuestion {
	out := make([]dto.ExamQuestion, 0, len(rows))
	for _, r := range rows {
		q := questions[r.QuestionID]
		if q == nil {
			continue
		}
		eq := dto.ExamQuestion{ID: r.ID, Name: q.Name, Type: q.Type, Description: q.Description, Hints: q.Hints, Options: make([]dto.ExamOption, len(q.Options))}
		for i, o := range q.Options {
			eq.Options[i] = dto.ExamOption{ID: o.ID, Option: o.Option}
		}
		out = append(out, eq)
	}
	return out
}

func closeWithError(ctx context.Context, db *gorm.DB, sub *model.QuestionSetSubmissionModel, now time.Time) error {
	msg := grading.ErrTimeExceeded
	sub.EndTime, sub.IsSubmissionError, sub.SubmissionError = &now, true, &msg
	return db.WithContext(ctx).Model(sub).Updates(map[string]any{
		"end_time":            now,
		"is_submission_error": true,
		"submission_error":    msg,
		"updated_on":          now,
	}).Error
}

// StartExam opens an attempt for an enrolled trainee, or resumes the one still running.
func (s *QuestionSetService) StartExam(ctx context.Context, actor helper.CurrentUser, identity string) (*dto.StartExamResponse, error) {
	sa, err := s.resolve(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	if sa.Course.Enrollment == nil {
		return nil, helper.ErrForbidden("only enrolled trainees can take this exam")
	}
	now := s.now().UTC()
	if !grading.WithinWindow(sa.Set.StartTime, sa.Set.EndTime, now) {
		return nil, helper.ErrBadRequest("the exam is not open at this time")
	}
	rows, questions, err := loadSetQuestions(ctx, s.DB, sa.Set.ID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, helper.ErrBadRequest("the exam has no questions yet")
	}

	var open model.QuestionSetSubmissionModel
	res := s.DB.WithContext(ctx).Where("question_set_id = ? AND user_id = ? AND end_time IS NULL", sa.Set.ID, actor.ID).
		Order("start_time DESC").Limit(1).Find(&open)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		if grading.StillOpen(open.StartTime, sa.Set.Duration, now) {
			return startResponse(&open, sa.Set.Duration, true, examQuestions(rows, questions)), nil
		}
		if err := closeWithError(ctx, s.DB, &open, now); err != nil {
			return nil, err
		}
	}

	var used int64
	if err := s.DB.WithContext(ctx).Model(&model.QuestionSetSubmissionModel{}).
		Where("question_set_id = ? AND user_id = ?", sa.Set.ID, actor.ID).Count(&used).Error; err != nil {
		return nil, err
	}
	if !grading.CanAttempt(int(used), sa.Set.AllowedRetake) {
		return nil, helper.ErrConflict("no attempts left for this exam")
	}

	sub := &model.QuestionSetSubmissionModel{QuestionSetID: sa.Set.ID, UserID: actor.ID, StartTime: now, Audit: helper.NewAudit(actor.ID)}
	if err := s.DB.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return startResponse(sub, sa.Set.Duration, false, examQuestions(rows, questions)), nil
}

func startResponse(sub *model.QuestionSetSubmissionModel, duration int, resumed bool, qs []dto.ExamQuestion) *dto.StartExamResponse {
	out := &dto.StartExamResponse{SubmissionID: sub.ID, StartTime: sub.StartTime, Duration: duration, Resumed: resumed, Questions: qs}
	if d := grading.Deadline(sub.StartTime, duration); !d.IsZero() {
		out.Deadline = &d
	}
	return out
}

// Submit grades an attempt. A late attempt is closed with the time-exceeded error and
// earns nothing. A pass completes the exam lesson for the trainee.
func (s *QuestionSetService) Submit(ctx context.Context, actor helper.CurrentUser, identity string, submissionID uuid.UUID, req dto.SubmitRequest) (*dto.SubmitResponse, error) {
	sa, err := s.resolve(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	var sub model.QuestionSetSubmissionModel
	if err := s.DB.WithContext(ctx).Where("id = ? AND question_set_id = ?", submissionID, sa.Set.ID).Take(&sub).Error; err != nil {
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
	if grading.IsLate(sub.StartTime, sa.Set.Duration, now) {
		if err := closeWithError(ctx, s.DB, &sub, now); err != nil {
			return nil, err
		}
		return &dto.SubmitResponse{SubmissionID: sub.ID, IsSubmissionError: true, SubmissionError: grading.ErrTimeExceeded}, nil
	}

	rows, questions, err := loadSetQuestions(ctx, s.DB, sa.Set.ID)
	if err != nil {
		return nil, err
	}
	gq := make([]grading.Question, 0, len(rows))
	snaps := make(map[uuid.UUID]dto.Snapshot, len(rows))
	for _, r := range rows {
		q := questions[r.QuestionID]
		if q == nil {
			continue
		}
		g := grading.Question{ID: r.ID, Type: q.Type, Options: make([]grading.Option, len(q.Options))}
		for i, o := range q.Options {
			g.Options[i] = grading.Option{ID: o.ID, IsCorrect: o.IsCorrect}
		}
		gq = append(gq, g)
		snaps[r.ID] = snapshotOf(q)
	}
	result, err := grading.Grade(gq, req.ToAnswers(), grading.Scheme{
		MarkPerQuestion:  sa.Set.QuestionMarking,
		NegativeMarking:  sa.Set.NegativeMarking,
		PassingWeightage: sa.Set.PassingWeightage,
	})
	if err != nil {
		return nil, err
	}

	selected := make(map[uuid.UUID][]uuid.UUID, len(req.Answers))
	for _, a := range req.Answers {
		selected[a.QuestionSetQuestionID] = a.SelectedOptionIDs
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		answers := make([]model.QuestionSetSubmissionAnswerModel, 0, len(result.Questions))
		for _, qr := range result.Questions {
			if !qr.Answered {
				continue
			}
			sel, err := sonic.Marshal(selected[qr.QuestionID])
			if err != nil {
				return errors.Wrap(err, "encode selected options")
			}
			snap, err := sonic.Marshal(snaps[qr.QuestionID])
			if err != nil {
				return errors.Wrap(err, "encode question snapshot")
			}
			answers = append(answers, model.QuestionSetSubmissionAnswerModel{
				QuestionSetSubmissionID: sub.ID,
				QuestionSetQuestionID:   qr.QuestionID,
				SelectedOptionIDs:       datatypes.JSON(sel),
				IsCorrect:               qr.IsCorrect,
				Snapshot:                datatypes.JSON(snap),
				Audit:                   helper.NewAudit(actor.ID),
			})
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&model.QuestionSetResultModel{
			QuestionSetID:           sa.Set.ID,
			QuestionSetSubmissionID: sub.ID,
			UserID:                  actor.ID,
			TotalMark:               result.TotalMark,
			PositiveMark:            result.PositiveMark,
			NegativeMark:            result.NegativeMark,
			ObtainedMark:            result.ObtainedMark,
			IsPassed:                result.IsPassed,
			Audit:                   helper.NewAudit(actor.ID),
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&sub).Updates(map[string]any{"end_time": now, "updated_by": actor.ID, "updated_on": now}).Error; err != nil {
			return err
		}
		if !result.IsPassed || sa.Course.Enrollment == nil {
			return nil
		}
		_, err := courseService.RecordProgress(ctx, tx, courseService.LessonProgress{
			CourseID:    sa.Lesson.CourseID,
			LessonID:    sa.Lesson.ID,
			UserID:      actor.ID,
			IsCompleted: true,
			IsPassed:    true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	metrics.ObserveGrading("question_set", result.IsPassed)
	log.Info().Str("question_set_id", sa.Set.ID.String()).Str("user_id", actor.ID.String()).
		Float64("obtained", result.ObtainedMark).Bool("passed", result.IsPassed).Msg("[EXAM] graded")
	out := dto.FromGrade(sub.ID, result)
	return &out, nil
}

// CloseStaleSubmissions ends timed attempts that ran past duration plus grace without a submit.
func CloseStaleSubmissions(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(`
		UPDATE question_set_submissions s
		SET end_time = ?, is_submission_error = true, submission_error = ?, updated_on = ?
		FROM question_sets q
		WHERE q.id = s.question_set_id
		  AND s.end_time IS NULL
		  AND q.duration > 0
		  AND s.start_time + q.duration * INTERVAL '1 minute' + ? * INTERVAL '1 second' < ?`,
		now, grading.ErrTimeExceeded, now, int(grading.Grace/time.Second), now)
	return res.RowsAffected, res.Error
}
