package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	helper "academykit_backend/internals/helpers"
)

type AssessmentModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string     `gorm:"size:250;not null" json:"title"`
	Slug        string     `gorm:"size:250;not null;uniqueIndex" json:"slug"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	Retakes     int        `gorm:"not null;default:0" json:"retakes"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Duration    int        `gorm:"not null;default:0" json:"duration"` // minutes
	Weightage   float64    `gorm:"not null;default:0" json:"weightage"`
	Status      string     `gorm:"type:varchar(20);not null;default:'Draft'" json:"status"`
	Message     *string    `gorm:"type:text" json:"message,omitempty"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`

	Questions   []AssessmentQuestionModel `gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE" json:"-"`
	Eligibility []EligibilityModel        `gorm:"foreignKey:AssessmentID;constraint:OnDelete:CASCADE" json:"-"`

	helper.Audit `gorm:"embedded"`
}

func (AssessmentModel) TableName() string { return "assessments" }

type AssessmentQuestionModel struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssessmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"assessment_id"`
	Name         string    `gorm:"type:text;not null" json:"name"`
	Type         string    `gorm:"type:varchar(20);not null" json:"type"`
	Description  *string   `gorm:"type:text" json:"description,omitempty"`
	Hints        *string   `gorm:"type:text" json:"hints,omitempty"`
	Order        int       `gorm:"column:order;not null;default:0" json:"order"`

	Options []AssessmentOptionModel `gorm:"foreignKey:AssessmentQuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (AssessmentQuestionModel) TableName() string { return "assessment_questions" }

type AssessmentOptionModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssessmentQuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"assessment_question_id"`
	Option               string    `gorm:"type:text;not null" json:"option"`
	IsCorrect            bool      `gorm:"not null;default:false" json:"is_correct"`
	Order                int       `gorm:"column:order;not null;default:0" json:"order"`

	helper.Audit `gorm:"embedded"`
}

func (AssessmentOptionModel) TableName() string { return "assessment_options" }

// EligibilityModel is one criteria row; unset fields match anyone.
type EligibilityModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssessmentID uuid.UUID  `gorm:"type:uuid;not null;index" json:"assessment_id"`
	Role         *string    `gorm:"type:varchar(20)" json:"role,omitempty"`
	DepartmentID *uuid.UUID `gorm:"type:uuid" json:"department_id,omitempty"`
	GroupID      *uuid.UUID `gorm:"type:uuid" json:"group_id,omitempty"`
	TrainingID   *uuid.UUID `gorm:"type:uuid" json:"training_id,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (EligibilityModel) TableName() string { return "eligibility_creations" }

type AssessmentSubmissionModel struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssessmentID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"assessment_id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	StartTime         time.Time      `gorm:"not null" json:"start_time"`
	EndTime           *time.Time     `json:"end_time,omitempty"`
	IsSubmissionError bool           `gorm:"not null;default:false" json:"is_submission_error"`
	SubmissionError   *string        `gorm:"type:text" json:"submission_error,omitempty"`
	Answers           datatypes.JSON `gorm:"type:jsonb" json:"answers,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (AssessmentSubmissionModel) TableName() string { return "assessment_submissions" }

type AssessmentResultModel struct {
	ID                     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssessmentID           uuid.UUID `gorm:"type:uuid;not null;index" json:"assessment_id"`
	AssessmentSubmissionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"assessment_submission_id"`
	UserID                 uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TotalMark              float64   `gorm:"not null" json:"total_mark"`
	ObtainedMark           float64   `gorm:"not null" json:"obtained_mark"`
	Percentage             float64   `gorm:"not null" json:"percentage"`
	IsPassed               bool      `gorm:"not null;default:false" json:"is_passed"`

	helper.Audit `gorm:"embedded"`
}

func (AssessmentResultModel) TableName() string { return "assessment_results" }
