package model

import (
	"time"

	"github.com/google/uuid"

	helper "academykit_backend/internals/helpers"
)

type CourseCertificateModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"course_id"`
	Title          string     `gorm:"size:250;not null" json:"title"`
	EventStartDate *time.Time `json:"event_start_date,omitempty"`
	EventEndDate   *time.Time `json:"event_end_date,omitempty"`
	SampleURL      *string    `gorm:"type:text" json:"sample_url,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (CourseCertificateModel) TableName() string { return "course_certificates" }
