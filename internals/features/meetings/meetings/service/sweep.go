package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	courseModel "academykit_backend/internals/features/courses/courses/model"
	courseService "academykit_backend/internals/features/courses/courses/service"
	lessonModel "academykit_backend/internals/features/courses/lessons/model"
	model "academykit_backend/internals/features/meetings/meetings/model"
)

// SweepWindow is how far back finished meetings are revisited.
const SweepWindow = 25 * time.Hour

// CompleteFinishedMeetings marks live-class lessons completed for every enrolled
// attendee of a meeting that ended within SweepWindow. Safe to repeat.
func CompleteFinishedMeetings(ctx context.Context, db *gorm.DB, now time.Time) (int, error) {
	var meetings []model.MeetingModel
	if err := db.WithContext(ctx).
		Where("lesson_id IS NOT NULL").
		Where("start_date + duration * INTERVAL '1 second' BETWEEN ? AND ?", now.Add(-SweepWindow), now).
		Find(&meetings).Error; err != nil {
		return 0, err
	}
	marked := 0
	for _, m := range meetings {
		var lesson lessonModel.LessonModel
		if err := db.WithContext(ctx).Take(&lesson, "id = ?", *m.LessonID).Error; err != nil {
			log.Warn().Err(err).Str("meeting_id", m.ID.String()).Msg("[ZOOM] sweep: lesson missing")
			continue
		}
		var attendees []uuid.UUID
		if err := db.WithContext(ctx).Model(&model.MeetingReportModel{}).
			Where("meeting_id = ? AND user_id IS NOT NULL", m.ID).
			Where("user_id IN (?)", db.Model(&courseModel.CourseEnrollmentModel{}).Select("user_id").Where("course_id = ?", lesson.CourseID)).
			Distinct("user_id").Pluck("user_id", &attendees).Error; err != nil {
			return marked, err
		}
		for _, userID := range attendees {
			_, err := courseService.RecordProgress(ctx, db, courseService.LessonProgress{
				CourseID:    lesson.CourseID,
				LessonID:    lesson.ID,
				UserID:      userID,
				IsCompleted: true,
				IsPassed:    true,
			})
			if err != nil {
				return marked, err
			}
			marked++
		}
	}
	return marked, nil
}
