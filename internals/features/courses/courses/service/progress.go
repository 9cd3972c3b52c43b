package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"academykit_backend/internals/constants"
	"academykit_backend/internals/features/assessments/grading"
	model "academykit_backend/internals/features/courses/courses/model"
	lessonModel "academykit_backend/internals/features/courses/lessons/model"
	helper "academykit_backend/internals/helpers"
)

// LessonProgress is one watch-history update.
type LessonProgress struct {
	CourseID          uuid.UUID
	LessonID          uuid.UUID
	UserID            uuid.UUID
	WatchedPercentage int
	IsCompleted       bool
	IsPassed          bool
}

// RecordProgress upserts the watch history and recomputes the enrollment percentage.
// Completion and pass flags never go back to false. Callers pass a transaction when
// the update must commit together with other writes.
func RecordProgress(ctx context.Context, db *gorm.DB, p LessonProgress) (*model.CourseEnrollmentModel, error) {
	if p.WatchedPercentage < 0 {
		p.WatchedPercentage = 0
	}
	if p.WatchedPercentage > 100 || p.IsCompleted {
		p.WatchedPercentage = 100
	}

	wh := lessonModel.WatchHistoryModel{
		CourseID:          p.CourseID,
		LessonID:          p.LessonID,
		UserID:            p.UserID,
		WatchedPercentage: p.WatchedPercentage,
		IsCompleted:       p.IsCompleted,
		IsPassed:          p.IsPassed,
		Audit:             helper.NewAudit(p.UserID),
	}
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "course_id"}, {Name: "lesson_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"watched_percentage": gorm.Expr("GREATEST(watch_histories.watched_percentage, EXCLUDED.watched_percentage)"),
			"is_completed":       gorm.Expr("watch_histories.is_completed OR EXCLUDED.is_completed"),
			"is_passed":          gorm.Expr("watch_histories.is_passed OR EXCLUDED.is_passed"),
			"updated_by":         p.UserID,
			"updated_on":         time.Now().UTC(),
		}),
	}).Create(&wh).Error
	if err != nil {
		return nil, err
	}
	return RecomputeEnrollment(ctx, db, p.CourseID, p.UserID, &p.LessonID)
}

// RecomputeCourse refreshes every enrollment of a course, e.g. after a lesson was removed.
func RecomputeCourse(ctx context.Context, db *gorm.DB, courseID uuid.UUID) error {
	var userIDs []uuid.UUID
	if err := db.WithContext(ctx).Model(&model.CourseEnrollmentModel{}).
		Where("course_id = ?", courseID).Pluck("user_id", &userIDs).Error; err != nil {
		return err
	}
	for _, id := range userIDs {
		if _, err := RecomputeEnrollment(ctx, db, courseID, id, nil); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeEnrollment sets percentage = floor(completed*100/total) over published lessons and flips the
// enrollment to Completed at 100. Users without an enrollment (teachers) are skipped.
func RecomputeEnrollment(ctx context.Context, db *gorm.DB, courseID, userID uuid.UUID, current *uuid.UUID) (*model.CourseEnrollmentModel, error) {
	var e model.CourseEnrollmentModel
	res := db.WithContext(ctx).Where("course_id = ? AND user_id = ?", courseID, userID).Limit(1).Find(&e)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	var total, completed int64
	if err := db.WithContext(ctx).Model(&lessonModel.LessonModel{}).
		Where("course_id = ? AND status = ?", courseID, constants.StatusPublished).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&lessonModel.WatchHistoryModel{}).
		Joins("JOIN lessons l ON l.id = watch_histories.lesson_id AND l.deleted_at IS NULL AND l.status = ?", constants.StatusPublished).
		Where("watch_histories.course_id = ? AND watch_histories.user_id = ? AND watch_histories.is_completed", courseID, userID).
		Count(&completed).Error; err != nil {
		return nil, err
	}

	e.Percentage = grading.Progress(completed, total)
	if current != nil {
		e.CurrentLessonID = current
	}
	if e.Percentage >= 100 && e.Status != constants.EnrollmentCompleted {
		now := time.Now().UTC()
		e.Status = constants.EnrollmentCompleted
		e.CompletedOn = &now
	}
	e.Touch(userID)
	if err := db.WithContext(ctx).Save(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}
