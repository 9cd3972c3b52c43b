package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/courses/courses/model"
	groupService "academykit_backend/internals/features/users/groups/service"
	helper "academykit_backend/internals/helpers"
)

// Access is what the caller may do with one course.
type Access struct {
	Course      *model.CourseModel
	TeacherRole string // "", Author or Lecturer
	Enrollment  *model.CourseEnrollmentModel
	Admin       bool
}

func (a Access) IsTeacher() bool { return a.TeacherRole != "" }
func (a Access) IsAuthor() bool  { return a.TeacherRole == constants.TeacherAuthor }

// CanManage covers editing content, reviewing submissions and reading statistics.
func (a Access) CanManage() bool { return a.Admin || a.IsTeacher() }

// CanLearn covers reading lesson content and submitting work.
func (a Access) CanLearn() bool { return a.CanManage() || a.Enrollment != nil }

func LoadCourse(ctx context.Context, db *gorm.DB, identity string) (*model.CourseModel, error) {
	var c model.CourseModel
	if err := helper.IdentityWhere(db.WithContext(ctx), "id", "slug", identity).Take(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("course not found")
		}
		return nil, err
	}
	return &c, nil
}

func LoadCourseByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.CourseModel, error) {
	return LoadCourse(ctx, db, id.String())
}

// ResolveAccess loads the course plus the caller's teacher role and enrollment.
func ResolveAccess(ctx context.Context, db *gorm.DB, actor helper.CurrentUser, identity string) (*Access, error) {
	c, err := LoadCourse(ctx, db, identity)
	if err != nil {
		return nil, err
	}
	return accessFor(ctx, db, actor, c)
}

func accessFor(ctx context.Context, db *gorm.DB, actor helper.CurrentUser, c *model.CourseModel) (*Access, error) {
	a := &Access{Course: c, Admin: actor.IsAdmin()}

	var t model.CourseTeacherModel
	err := db.WithContext(ctx).Where("course_id = ? AND user_id = ?", c.ID, actor.ID).Take(&t).Error
	switch {
	case err == nil:
		a.TeacherRole = t.Role
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	var e model.CourseEnrollmentModel
	err = db.WithContext(ctx).Where("course_id = ? AND user_id = ?", c.ID, actor.ID).Take(&e).Error
	switch {
	case err == nil:
		a.Enrollment = &e
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return a, nil
}

// RequireManage answers 403 unless the caller teaches the course or is an admin.
func RequireManage(ctx context.Context, db *gorm.DB, actor helper.CurrentUser, identity string) (*Access, error) {
	a, err := ResolveAccess(ctx, db, actor, identity)
	if err != nil {
		return nil, err
	}
	if !a.CanManage() {
		return nil, helper.ErrForbidden("only course teachers or admins can do this")
	}
	return a, nil
}

// RequireLearner answers 403 unless the caller is enrolled, teaches the course or is an admin.
func RequireLearner(ctx context.Context, db *gorm.DB, actor helper.CurrentUser, identity string) (*Access, error) {
	a, err := ResolveAccess(ctx, db, actor, identity)
	if err != nil {
		return nil, err
	}
	if !a.CanLearn() {
		return nil, helper.ErrForbidden("you are not enrolled in this course")
	}
	return a, nil
}

// GroupVisible reports whether a course restricted to a group is visible to the user.
func GroupVisible(ctx context.Context, db *gorm.DB, c *model.CourseModel, userID uuid.UUID) (bool, error) {
	if c.GroupID == nil {
		return true, nil
	}
	groups, err := groupService.UserGroupIDs(ctx, db, userID)
	if err != nil {
		return false, err
	}
	return groups[*c.GroupID], nil
}

// TeacherIDs returns the user ids teaching a course.
func TeacherIDs(ctx context.Context, db *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := db.WithContext(ctx).Model(&model.CourseTeacherModel{}).Where("course_id = ?", courseID).Pluck("user_id", &ids).Error
	return ids, err
}
