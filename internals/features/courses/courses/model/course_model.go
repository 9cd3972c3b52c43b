package model

import (
	"time"

	"github.com/google/uuid"

	helper "academykit_backend/internals/helpers"
)

type CourseModel struct {
	ID                 uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name               string     `gorm:"size:250;not null" json:"name"`
	Slug               string     `gorm:"size:250;not null;uniqueIndex" json:"slug"`
	Description        *string    `gorm:"type:text" json:"description,omitempty"`
	ThumbnailURL       *string    `gorm:"type:text" json:"thumbnail_url,omitempty"`
	Status             string     `gorm:"type:varchar(20);not null;default:'Draft';index" json:"status"`
	IsUpdate           bool       `gorm:"not null;default:false" json:"is_update"`
	Language           string     `gorm:"size:20;not null;default:'en'" json:"language"`
	Duration           int        `gorm:"not null;default:0" json:"duration"`
	LevelID            *uuid.UUID `gorm:"type:uuid;index" json:"level_id,omitempty"`
	GroupID            *uuid.UUID `gorm:"type:uuid;index" json:"group_id,omitempty"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	IsUnlimitedEndDate bool       `gorm:"not null;default:true" json:"is_unlimited_end_date"`

	Tags     []CourseTagModel     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Teachers []CourseTeacherModel `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`

	helper.Audit `gorm:"embedded"`
}

func (CourseModel) TableName() string { return "courses" }

// IsOpenAt reports whether the course accepts learners at t.
func (c CourseModel) IsOpenAt(t time.Time) bool {
	if c.StartDate != nil && t.Before(*c.StartDate) {
		return false
	}
	if !c.IsUnlimitedEndDate && c.EndDate != nil && t.After(*c.EndDate) {
		return false
	}
	return true
}

type CourseTagModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_course_tags_pair" json:"course_id"`
	TagID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_course_tags_pair" json:"tag_id"`
}

func (CourseTagModel) TableName() string { return "course_tags" }

type CourseTeacherModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_course_teachers_pair" json:"course_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_course_teachers_pair;index" json:"user_id"`
	Role     string    `gorm:"type:varchar(20);not null;default:'Lecturer'" json:"role"`

	helper.Audit `gorm:"embedded"`
}

func (CourseTeacherModel) TableName() string { return "course_teachers" }

type CourseEnrollmentModel struct {
	ID                    uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID              uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_enrollments_pair" json:"course_id"`
	UserID                uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_enrollments_pair;index" json:"user_id"`
	EnrollmentDate        time.Time  `gorm:"not null" json:"enrollment_date"`
	Status                string     `gorm:"type:varchar(20);not null;default:'Enrolled'" json:"status"`
	Percentage            int        `gorm:"not null;default:0" json:"percentage"`
	CurrentLessonID       *uuid.UUID `gorm:"type:uuid" json:"current_lesson_id,omitempty"`
	CompletedOn           *time.Time `json:"completed_on,omitempty"`
	CertificateIssuedDate *time.Time `json:"certificate_issued_date,omitempty"`
	CertificateURL        *string    `gorm:"type:text" json:"certificate_url,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (CourseEnrollmentModel) TableName() string { return "course_enrollments" }

type CourseStatusLogModel struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID   uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	FromStatus string    `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus   string    `gorm:"type:varchar(20);not null" json:"to_status"`
	Message    *string   `gorm:"type:text" json:"message,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (CourseStatusLogModel) TableName() string { return "course_status_logs" }
