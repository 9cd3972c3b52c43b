//go:build integration

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	"academykit_backend/internals/features/assessments/grading"
	poolModel "academykit_backend/internals/features/assessments/question_pools/model"
	dto "academykit_backend/internals/features/assessments/question_sets/dto"
	model "academykit_backend/internals/features/assessments/question_sets/model"
	lessonModel "academykit_backend/internals/features/courses/lessons/model"
	sectionModel "academykit_backend/internals/features/courses/sections/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/testinfra"
)

type examFixture struct {
	svc       *QuestionSetService
	db        *gorm.DB
	set       model.QuestionSetModel
	lesson    lessonModel.LessonModel
	learner   helper.CurrentUser
	rowID     uuid.UUID
	correctID uuid.UUID
	clock     time.Time
}

// seedExam builds a published course with one exam lesson of a single one-mark question.
func seedExam(t *testing.T, retakes, duration int) *examFixture {
	t.Helper()
	db := testinfra.Postgres(t)
	_, author := testinfra.User(t, db, constants.RoleTrainer)
	_, learner := testinfra.User(t, db, constants.RoleTrainee)
	c := testinfra.Course(t, db, author.ID, nil)
	testinfra.Enroll(t, db, c.ID, learner.ID)
	audit := helper.NewAudit(author.ID)

	set := model.QuestionSetModel{
		Name: "Final exam", Slug: "final-exam-" + c.ID.String()[:8],
		QuestionMarking: 1, PassingWeightage: 50, AllowedRetake: retakes, Duration: duration, Audit: audit,
	}
	require.NoError(t, db.Create(&set).Error)
	sec := sectionModel.SectionModel{CourseID: c.ID, Name: "Exam", Slug: "exam-" + c.ID.String()[:8], Audit: audit}
	require.NoError(t, db.Create(&sec).Error)
	lesson := lessonModel.LessonModel{
		CourseID: c.ID, SectionID: sec.ID, Name: "Final exam", Slug: "final-exam-lesson-" + c.ID.String()[:8],
		Type: constants.LessonExam, Status: constants.StatusPublished, QuestionSetID: &set.ID, Audit: audit,
	}
	require.NoError(t, db.Create(&lesson).Error)

	pool := poolModel.QuestionPoolModel{Name: "Pool " + c.ID.String()[:8], Slug: "pool-" + c.ID.String()[:8], Audit: audit}
	require.NoError(t, db.Create(&pool).Error)
	q := poolModel.QuestionModel{Name: "2 + 2?", Type: constants.QuestionSingleChoice, Audit: audit, Options: []poolModel.QuestionOptionModel{
		{ID: uuid.New(), Option: "4", IsCorrect: true, Order: 1, Audit: audit},
		{ID: uuid.New(), Option: "5", Order: 2, Audit: audit},
	}}
	require.NoError(t, db.Create(&q).Error)
	pq := poolModel.QuestionPoolQuestionModel{QuestionPoolID: pool.ID, QuestionID: q.ID, Order: 1, Audit: audit}
	require.NoError(t, db.Create(&pq).Error)
	row := model.QuestionSetQuestionModel{QuestionSetID: set.ID, QuestionID: q.ID, QuestionPoolQuestionID: pq.ID, Order: 1, Audit: audit}
	require.NoError(t, db.Create(&row).Error)

	f := &examFixture{
		svc: NewQuestionSetService(db), db: db, set: set, lesson: lesson, learner: learner,
		rowID: row.ID, correctID: q.Options[0].ID,
		clock: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc.now = func() time.Time { return f.clock }
	return f
}

func (f *examFixture) correct() dto.SubmitRequest {
	return dto.SubmitRequest{Answers: []dto.AnswerRequest{{QuestionSetQuestionID: f.rowID, SelectedOptionIDs: []uuid.UUID{f.correctID}}}}
}

func (f *examFixture) submission(t *testing.T, id uuid.UUID) model.QuestionSetSubmissionModel {
	t.Helper()
	var s model.QuestionSetSubmissionModel
	require.NoError(t, f.db.Take(&s, "id = ?", id).Error)
	return s
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *helper.AppError
	require.True(t, errors.As(err, &appErr), "want *AppError, got %v", err)
	return appErr.Status
}

func TestStartExam_ResumesOpenAttempt(t *testing.T) {
	f := seedExam(t, 0, 10)
	ctx := context.Background()

	first, err := f.svc.StartExam(ctx, f.learner, f.set.Slug)
	require.NoError(t, err)
	assert.False(t, first.Resumed)
	require.NotNil(t, first.Deadline)
	require.Len(t, first.Questions, 1)

	f.clock = f.clock.Add(5 * time.Minute)
	again, err := f.svc.StartExam(ctx, f.learner, f.set.ID.String())
	require.NoError(t, err)
	assert.True(t, again.Resumed)
	assert.Equal(t, first.SubmissionID, again.SubmissionID)

	var n int64
	require.NoError(t, f.db.Model(&model.QuestionSetSubmissionModel{}).Where("question_set_id = ?", f.set.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n, "resuming does not spend an attempt")
}

func TestStartExam_RetakeBudget(t *testing.T) {
	f := seedExam(t, 1, 10)
	ctx := context.Background()

	for attempt := 1; attempt <= 2; attempt++ {
		start, err := f.svc.StartExam(ctx, f.learner, f.set.Slug)
		require.NoError(t, err, "attempt %d", attempt)
		assert.False(t, start.Resumed)
		f.clock = f.clock.Add(time.Minute)
		_, err = f.svc.Submit(ctx, f.learner, f.set.Slug, start.SubmissionID, dto.SubmitRequest{})
		require.NoError(t, err)
		f.clock = f.clock.Add(time.Minute)
	}

	_, err := f.svc.StartExam(ctx, f.learner, f.set.Slug)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, statusOf(t, err))
}

func TestStartExam_ExpiredAttemptIsClosedBeforeANewOne(t *testing.T) {
	f := seedExam(t, 1, 10)
	ctx := context.Background()

	first, err := f.svc.StartExam(ctx, f.learner, f.set.Slug)
	require.NoError(t, err)

	f.clock = f.clock.Add(11 * time.Minute)
	second, err := f.svc.StartExam(ctx, f.learner, f.set.Slug)
	require.NoError(t, err)
	assert.False(t, second.Resumed)
	assert.NotEqual(t, first.SubmissionID, second.SubmissionID)

	old := f.submission(t, first.SubmissionID)
	assert.True(t, old.IsSubmissionError)
	require.NotNil(t, old.EndTime)
	require.NotNil(t, old.SubmissionError)
	assert.Equal(t, grading.ErrTimeExceeded, *old.SubmissionError)
}

func TestSubmit_LateAttemptRecordsSubmissionError(t *testing.T) {
	f := seedExam(t, 0, 10)
	ctx := context.Background()

	start, err := f.svc.StartExam(ctx, f.learner, f.set.Slug)
	require.NoError(t, err)

	f.clock = f.clock.Add(10*time.Minute + grading.Grace + time.Second)
	res, err := f.svc.Submit(ctx, f.learner, f.set.Slug, start.SubmissionID, f.correct())
	require.NoError(t, err)
	assert.True(t, res.IsSubmissionError)
	assert.Equal(t, grading.ErrTimeExceeded, res.SubmissionError)
	assert.Zero(t, res.ObtainedMark)

	sub := f.submission(t, start.SubmissionID)
	assert.True(t, sub.IsSubmissionError)
	require.NotNil(t, sub.EndTime)

	var results int64
	require.NoError(t, f.db.Model(&model.QuestionSetResultModel{}).Where("question_set_submission_id = ?", start.SubmissionID).Count(&results).Error)
	assert.Zero(t, results, "a late attempt is not graded")
}

func TestSubmit_WithinGraceIsGraded(t *testing.T) {
	f := seedExam(t, 0, 10)
	ctx := context.Background()

	start, err := f.svc.StartExam(ctx, f.learner, f.set.Slug)
	require.NoError(t, err)

	f.clock = f.clock.Add(10*time.Minute + grading.Grace/2)
	res, err := f.svc.Submit(ctx, f.learner, f.set.Slug, start.SubmissionID, f.correct())
	require.NoError(t, err)
	assert.False(t, res.IsSubmissionError)
	assert.True(t, res.IsPassed)
	assert.Equal(t, 1.0, res.ObtainedMark)

	var wh lessonModel.WatchHistoryModel
	require.NoError(t, f.db.Take(&wh, "lesson_id = ? AND user_id = ?", f.lesson.ID, f.learner.ID).Error)
	assert.True(t, wh.IsCompleted)
	assert.True(t, wh.IsPassed)
}

func TestSubmit_TwiceIsConflict(t *testing.T) {
	f := seedExam(t, 3, 0)
	ctx := context.Background()

	start, err := f.svc.StartExam(ctx, f.learner, f.set.Slug)
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.learner, f.set.Slug, start.SubmissionID, f.correct())
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, f.learner, f.set.Slug, start.SubmissionID, f.correct())
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, statusOf(t, err))

	var results int64
	require.NoError(t, f.db.Model(&model.QuestionSetResultModel{}).Where("question_set_submission_id = ?", start.SubmissionID).Count(&results).Error)
	assert.Equal(t, int64(1), results)
}

func TestSubmit_OtherUsersAttemptIsForbidden(t *testing.T) {
	f := seedExam(t, 0, 0)
	ctx := context.Background()
	start, err := f.svc.StartExam(ctx, f.learner, f.set.Slug)
	require.NoError(t, err)

	_, other := testinfra.User(t, f.db, constants.RoleTrainee)
	testinfra.Enroll(t, f.db, f.lesson.CourseID, other.ID)

	_, err = f.svc.Submit(ctx, other, f.set.Slug, start.SubmissionID, f.correct())
	require.Error(t, err)
	assert.Equal(t, fiber.StatusForbidden, statusOf(t, err))
}
