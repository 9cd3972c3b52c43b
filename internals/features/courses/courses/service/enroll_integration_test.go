//go:build integration

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/courses/courses/model"
	notificationModel "academykit_backend/internals/features/notifications/notifications/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/mailer"
	"academykit_backend/internals/testinfra"
)

type recordingQueue struct {
	mu     sync.Mutex
	topics []string
}

func (r *recordingQueue) Enqueue(_ context.Context, topic string, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.topics = append(r.topics, topic)
	return nil
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *helper.AppError
	require.True(t, errors.As(err, &appErr), "want *AppError, got %v", err)
	return appErr.Status
}

func TestEnroll_DuplicateIsConflict(t *testing.T) {
	db := testinfra.Postgres(t)
	ctx := context.Background()
	_, author := testinfra.User(t, db, constants.RoleTrainer)
	_, learner := testinfra.User(t, db, constants.RoleTrainee)
	c := testinfra.Course(t, db, author.ID, nil)

	q := &recordingQueue{}
	svc := NewCourseService(db, q)

	e, err := svc.Enroll(ctx, learner, c.Slug)
	require.NoError(t, err)
	assert.Equal(t, constants.EnrollmentEnrolled, e.Status)
	assert.Equal(t, []string{mailer.TopicSend}, q.topics)

	var notes int64
	require.NoError(t, db.Model(&notificationModel.NotificationModel{}).Where("user_id = ?", author.ID).Count(&notes).Error)
	assert.Equal(t, int64(1), notes, "teacher is told about the enrollment")

	_, err = svc.Enroll(ctx, learner, c.ID.String())
	require.Error(t, err)
	assert.Equal(t, fiber.StatusConflict, statusOf(t, err))

	var n int64
	require.NoError(t, db.Model(&model.CourseEnrollmentModel{}).Where("course_id = ? AND user_id = ?", c.ID, learner.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestEnroll_UniqueIndexBacksTheCheck(t *testing.T) {
	db := testinfra.Postgres(t)
	_, author := testinfra.User(t, db, constants.RoleTrainer)
	_, learner := testinfra.User(t, db, constants.RoleTrainee)
	c := testinfra.Course(t, db, author.ID, nil)
	testinfra.Enroll(t, db, c.ID, learner.ID)

	err := db.Create(&model.CourseEnrollmentModel{
		CourseID: c.ID, UserID: learner.ID, EnrollmentDate: time.Now().UTC(), Status: constants.EnrollmentEnrolled,
	}).Error
	require.Error(t, err)
	assert.True(t, helper.IsUniqueViolation(err))
}

func TestEnroll_Rejections(t *testing.T) {
	db := testinfra.Postgres(t)
	ctx := context.Background()
	_, author := testinfra.User(t, db, constants.RoleTrainer)
	_, learner := testinfra.User(t, db, constants.RoleTrainee)
	svc := NewCourseService(db, nil)

	draft := testinfra.Course(t, db, author.ID, func(c *model.CourseModel) { c.Status = constants.StatusDraft })
	ended := testinfra.Course(t, db, author.ID, func(c *model.CourseModel) {
		end := time.Now().Add(-24 * time.Hour)
		c.IsUnlimitedEndDate = false
		c.EndDate = &end
	})
	open := testinfra.Course(t, db, author.ID, nil)

	tests := []struct {
		name   string
		actor  helper.CurrentUser
		course string
		want   int
	}{
		{"draft course is hidden", learner, draft.Slug, fiber.StatusNotFound},
		{"enrollment window closed", learner, ended.Slug, fiber.StatusConflict},
		{"author cannot enroll", author, open.Slug, fiber.StatusConflict},
		{"unknown course", learner, "no-such-course", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Enroll(ctx, tt.actor, tt.course)
			require.Error(t, err)
			assert.Equal(t, tt.want, statusOf(t, err))
		})
	}
}
