package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	helper "academykit_backend/internals/helpers"
)

type MeetingModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MeetingNumber int64      `gorm:"not null;index" json:"meeting_number"`
	Passcode      string     `gorm:"size:50;not null;default:''" json:"-"`
	ZoomLicenseID uuid.UUID  `gorm:"type:uuid;not null;index" json:"zoom_license_id"`
	StartDate     time.Time  `gorm:"not null" json:"start_date"`
	Duration      int        `gorm:"not null" json:"duration"` // seconds
	LessonID      *uuid.UUID `gorm:"type:uuid;index" json:"lesson_id,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (MeetingModel) TableName() string { return "meetings" }

func (m MeetingModel) EndDate() time.Time {
	return m.StartDate.Add(time.Duration(m.Duration) * time.Second)
}

// Overlaps uses half-open windows: a.start < b.end && b.start < a.end.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

type MeetingReportModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	MeetingID uuid.UUID      `gorm:"type:uuid;not null;index" json:"meeting_id"`
	UserID    *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Email     string         `gorm:"size:255;not null;default:''" json:"email"`
	Name      string         `gorm:"size:255;not null;default:''" json:"name"`
	JoinTime  time.Time      `gorm:"not null" json:"join_time"`
	LeftTime  *time.Time     `json:"left_time,omitempty"`
	Duration  int            `gorm:"not null;default:0" json:"duration"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (MeetingReportModel) TableName() string { return "meeting_reports" }
