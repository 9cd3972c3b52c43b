//go:build integration

package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	database "academykit_backend/internals/databases"
	courseModel "academykit_backend/internals/features/courses/courses/model"
	lessonModel "academykit_backend/internals/features/courses/lessons/model"
	levelModel "academykit_backend/internals/features/courses/levels/model"
	sectionModel "academykit_backend/internals/features/courses/sections/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/testinfra"
)

func count(t *testing.T, db *gorm.DB, model any, where string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(where, args...).Count(&n).Error)
	return n
}

type courseTree struct {
	course  courseModel.CourseModel
	section sectionModel.SectionModel
	lesson  lessonModel.LessonModel
	learner uuid.UUID
}

func seedCourseTree(t *testing.T, db *gorm.DB) courseTree {
	t.Helper()
	_, author := testinfra.User(t, db, constants.RoleTrainer)
	_, learner := testinfra.User(t, db, constants.RoleTrainee)
	c := testinfra.Course(t, db, author.ID, nil)

	s := sectionModel.SectionModel{CourseID: c.ID, Name: "Basics", Slug: "basics-" + c.ID.String()[:8], Order: 1, Audit: helper.NewAudit(author.ID)}
	require.NoError(t, db.Create(&s).Error)
	l := lessonModel.LessonModel{
		CourseID: c.ID, SectionID: s.ID, Name: "Hello", Slug: "hello-" + c.ID.String()[:8],
		Type: constants.LessonVideo, Status: constants.StatusPublished, Order: 1, Audit: helper.NewAudit(author.ID),
	}
	require.NoError(t, db.Create(&l).Error)

	e := testinfra.Enroll(t, db, c.ID, learner.ID)
	require.NoError(t, db.Model(&e).Update("current_lesson_id", l.ID).Error)
	require.NoError(t, db.Create(&lessonModel.WatchHistoryModel{
		CourseID: c.ID, LessonID: l.ID, UserID: learner.ID, WatchedPercentage: 100, IsCompleted: true, Audit: helper.NewAudit(learner.ID),
	}).Error)
	return courseTree{course: c, section: s, lesson: l, learner: learner.ID}
}

func TestForeignKeys_DeletingCourseCascades(t *testing.T) {
	db := testinfra.Postgres(t)
	tree := seedCourseTree(t, db)

	require.NoError(t, db.Delete(&courseModel.CourseModel{}, "id = ?", tree.course.ID).Error)

	assert.Zero(t, count(t, db, &sectionModel.SectionModel{}, "course_id = ?", tree.course.ID))
	assert.Zero(t, count(t, db.Unscoped(), &lessonModel.LessonModel{}, "course_id = ?", tree.course.ID))
	assert.Zero(t, count(t, db, &lessonModel.WatchHistoryModel{}, "course_id = ?", tree.course.ID))
	assert.Zero(t, count(t, db, &courseModel.CourseEnrollmentModel{}, "course_id = ?", tree.course.ID))
	assert.Zero(t, count(t, db, &courseModel.CourseTeacherModel{}, "course_id = ?", tree.course.ID))
}

func TestForeignKeys_DeletingLessonClearsCurrentLesson(t *testing.T) {
	db := testinfra.Postgres(t)
	tree := seedCourseTree(t, db)

	require.NoError(t, db.Unscoped().Delete(&lessonModel.LessonModel{}, "id = ?", tree.lesson.ID).Error)

	var e courseModel.CourseEnrollmentModel
	require.NoError(t, db.Take(&e, "course_id = ? AND user_id = ?", tree.course.ID, tree.learner).Error)
	assert.Nil(t, e.CurrentLessonID)
	assert.Zero(t, count(t, db, &lessonModel.WatchHistoryModel{}, "lesson_id = ?", tree.lesson.ID))
	assert.Equal(t, int64(1), count(t, db, &sectionModel.SectionModel{}, "id = ?", tree.section.ID))
}

func TestForeignKeys_DeletingLevelKeepsCourse(t *testing.T) {
	db := testinfra.Postgres(t)
	_, author := testinfra.User(t, db, constants.RoleTrainer)
	lvl := levelModel.LevelModel{Name: "Beginner", Slug: "beginner", Audit: helper.NewAudit(author.ID)}
	require.NoError(t, db.Create(&lvl).Error)
	c := testinfra.Course(t, db, author.ID, func(c *courseModel.CourseModel) { c.LevelID = &lvl.ID })

	require.NoError(t, db.Delete(&lvl).Error)

	var got courseModel.CourseModel
	require.NoError(t, db.Take(&got, "id = ?", c.ID).Error)
	assert.Nil(t, got.LevelID)
}

func TestForeignKeys_RejectOrphans(t *testing.T) {
	db := testinfra.Postgres(t)
	err := db.Create(&sectionModel.SectionModel{CourseID: uuid.New(), Name: "Orphan", Slug: "orphan"}).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fk_sections_course_id")
}

func TestMigrate_IsRepeatable(t *testing.T) {
	db := testinfra.Postgres(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	require.NoError(t, database.Migrate(ctx, db))

	var n int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM pg_constraint WHERE conname LIKE 'fk\_%' AND contype = 'f'`).Scan(&n).Error)
	assert.GreaterOrEqual(t, n, int64(len(database.ForeignKeys)))
}
