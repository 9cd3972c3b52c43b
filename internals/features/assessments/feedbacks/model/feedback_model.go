package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	helper "academykit_backend/internals/helpers"
)

type FeedbackModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LessonID uuid.UUID `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Name     string    `gorm:"type:text;not null" json:"name"`
	Type     string    `gorm:"type:varchar(20);not null" json:"type"`
	Order    int       `gorm:"column:order;not null;default:0" json:"order"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	Options []FeedbackOptionModel `gorm:"foreignKey:FeedbackID;constraint:OnDelete:CASCADE" json:"options,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (FeedbackModel) TableName() string { return "feedbacks" }

type FeedbackOptionModel struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FeedbackID uuid.UUID `gorm:"type:uuid;not null;index" json:"feedback_id"`
	Option     string    `gorm:"type:text;not null" json:"option"`
	Order      int       `gorm:"column:order;not null;default:0" json:"order"`

	helper.Audit `gorm:"embedded"`
}

func (FeedbackOptionModel) TableName() string { return "feedback_options" }

type FeedbackSubmissionModel struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FeedbackID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_feedback_submissions_pair" json:"feedback_id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_feedback_submissions_pair" json:"user_id"`
	SelectedOptionIDs pq.StringArray `gorm:"type:text[]" json:"selected_option_ids"`
	Answer            *string        `gorm:"type:text" json:"answer,omitempty"`
	Rating            *int           `json:"rating,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (FeedbackSubmissionModel) TableName() string { return "feedback_submissions" }
