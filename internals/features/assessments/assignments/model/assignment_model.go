package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	helper "academykit_backend/internals/helpers"
)

type AssignmentModel struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LessonID    uuid.UUID `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Name        string    `gorm:"type:text;not null" json:"name"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Hints       *string   `gorm:"type:text" json:"hints,omitempty"`
	Order       int       `gorm:"column:order;not null;default:0" json:"order"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`

	Options []AssignmentOptionModel `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"options,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (AssignmentModel) TableName() string { return "assignments" }

type AssignmentOptionModel struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssignmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"assignment_id"`
	Option       string    `gorm:"type:text;not null" json:"option"`
	IsCorrect    bool      `gorm:"not null;default:false" json:"is_correct"`
	Order        int       `gorm:"column:order;not null;default:0" json:"order"`

	helper.Audit `gorm:"embedded"`
}

func (AssignmentOptionModel) TableName() string { return "assignment_options" }

type AssignmentSubmissionModel struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssignmentID      uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_assignment_submissions_pair" json:"assignment_id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:uq_assignment_submissions_pair" json:"user_id"`
	SelectedOptionIDs pq.StringArray `gorm:"type:text[]" json:"selected_option_ids"`
	Answer            *string        `gorm:"type:text" json:"answer,omitempty"`
	IsCorrect         *bool          `json:"is_correct,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (AssignmentSubmissionModel) TableName() string { return "assignment_submissions" }

type AssignmentReviewModel struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LessonID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_assignment_reviews_pair" json:"lesson_id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_assignment_reviews_pair" json:"user_id"`
	Mark       float64   `gorm:"not null" json:"mark"`
	Review     *string   `gorm:"type:text" json:"review,omitempty"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null" json:"reviewer_id"`
	IsPassed   bool      `gorm:"not null;default:false" json:"is_passed"`

	helper.Audit `gorm:"embedded"`
}

func (AssignmentReviewModel) TableName() string { return "assignment_reviews" }
