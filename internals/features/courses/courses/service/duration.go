package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecalculateDuration rolls lesson durations up into their sections and the course.
func RecalculateDuration(ctx context.Context, db *gorm.DB, courseID uuid.UUID) error {
	db = db.WithContext(ctx)
	if err := db.Exec(`
		UPDATE sections s SET duration = COALESCE((
			SELECT SUM(l.duration) FROM lessons l
			WHERE l.section_id = s.id AND l.deleted_at IS NULL), 0)
		WHERE s.course_id = ?`, courseID).Error; err != nil {
		return err
	}
	return db.Exec(`
		UPDATE courses SET duration = COALESCE((
			SELECT SUM(s.duration) FROM sections s
			WHERE s.course_id = courses.id AND NOT s.is_deleted), 0)
		WHERE id = ?`, courseID).Error
}
