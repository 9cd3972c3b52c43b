//go:build integration

package testinfra

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	courseModel "academykit_backend/internals/features/courses/courses/model"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
)

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}

// User inserts a user with the given role and returns it as the request actor too.
func User(t *testing.T, db *gorm.DB, role string) (userModel.UserModel, helper.CurrentUser) {
	t.Helper()
	id := uuid.New()
	u := userModel.UserModel{
		ID:           id,
		FirstName:    "Test",
		LastName:     role,
		Email:        id.String() + "@academykit.test",
		Role:         role,
		PasswordHash: "-",
	}
	mustCreate(t, db, &u)
	return u, helper.CurrentUser{ID: u.ID, Role: u.Role, Name: u.FullName()}
}

// Course inserts a published course authored by author. mutate may adjust it before insert.
func Course(t *testing.T, db *gorm.DB, author uuid.UUID, mutate func(*courseModel.CourseModel)) courseModel.CourseModel {
	t.Helper()
	c := courseModel.CourseModel{
		ID:                 uuid.New(),
		Name:               "Go Fundamentals",
		Status:             constants.StatusPublished,
		Language:           "en",
		IsUnlimitedEndDate: true,
		Audit:              helper.NewAudit(author),
	}
	c.Slug = "go-fundamentals-" + c.ID.String()[:8]
	if mutate != nil {
		mutate(&c)
	}
	mustCreate(t, db, &c)
	mustCreate(t, db, &courseModel.CourseTeacherModel{
		CourseID: c.ID, UserID: author, Role: constants.TeacherAuthor, Audit: helper.NewAudit(author),
	})
	return c
}

// Enroll inserts an enrollment row directly, bypassing the service checks.
func Enroll(t *testing.T, db *gorm.DB, courseID, userID uuid.UUID) courseModel.CourseEnrollmentModel {
	t.Helper()
	e := courseModel.CourseEnrollmentModel{
		CourseID:       courseID,
		UserID:         userID,
		EnrollmentDate: time.Now().UTC(),
		Status:         constants.EnrollmentEnrolled,
		Audit:          helper.NewAudit(userID),
	}
	mustCreate(t, db, &e)
	return e
}
