package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "academykit_backend/internals/helpers"
)

type LessonModel struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	SectionID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"section_id"`
	Name          string     `gorm:"size:250;not null" json:"name"`
	Slug          string     `gorm:"size:250;not null;uniqueIndex" json:"slug"`
	Description   *string    `gorm:"type:text" json:"description,omitempty"`
	Type          string     `gorm:"type:varchar(20);not null" json:"type"`
	VideoURL      *string    `gorm:"type:text" json:"video_url,omitempty"`
	DocumentURL   *string    `gorm:"type:text" json:"document_url,omitempty"`
	ThumbnailURL  *string    `gorm:"type:text" json:"thumbnail_url,omitempty"`
	Duration      int        `gorm:"not null;default:0" json:"duration"`
	IsMandatory   bool       `gorm:"not null;default:false" json:"is_mandatory"`
	Order         int        `gorm:"column:order;not null;default:0" json:"order"`
	Status        string     `gorm:"type:varchar(20);not null;default:'Draft'" json:"status"`
	QuestionSetID *uuid.UUID `gorm:"type:uuid" json:"question_set_id,omitempty"`
	MeetingID     *uuid.UUID `gorm:"type:uuid" json:"meeting_id,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`

	helper.Audit `gorm:"embedded"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (LessonModel) TableName() string { return "lessons" }

type WatchHistoryModel struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_watch_histories_triple" json:"course_id"`
	LessonID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_watch_histories_triple" json:"lesson_id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_watch_histories_triple;index" json:"user_id"`
	WatchedPercentage int       `gorm:"not null;default:0" json:"watched_percentage"`
	IsCompleted       bool      `gorm:"not null;default:false" json:"is_completed"`
	IsPassed          bool      `gorm:"not null;default:false" json:"is_passed"`

	helper.Audit `gorm:"embedded"`
}

func (WatchHistoryModel) TableName() string { return "watch_histories" }
