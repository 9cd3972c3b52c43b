package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	helper "academykit_backend/internals/helpers"
)

type QuestionSetModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name             string     `gorm:"size:250;not null" json:"name"`
	Slug             string     `gorm:"size:250;not null;uniqueIndex" json:"slug"`
	Description      *string    `gorm:"type:text" json:"description,omitempty"`
	ThumbnailURL     *string    `gorm:"type:text" json:"thumbnail_url,omitempty"`
	NegativeMarking  float64    `gorm:"not null;default:0" json:"negative_marking"`
	QuestionMarking  float64    `gorm:"not null;default:1" json:"question_marking"`
	PassingWeightage float64    `gorm:"not null;default:0" json:"passing_weightage"`
	AllowedRetake    int        `gorm:"not null;default:0" json:"allowed_retake"`
	Duration         int        `gorm:"not null;default:0" json:"duration"` // minutes, 0 = untimed
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	IsDeleted        bool       `gorm:"not null;default:false" json:"-"`

	helper.Audit `gorm:"embedded"`
}

func (QuestionSetModel) TableName() string { return "question_sets" }

type QuestionSetQuestionModel struct {
	ID                     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuestionSetID          uuid.UUID `gorm:"type:uuid;not null;index" json:"question_set_id"`
	QuestionID             uuid.UUID `gorm:"type:uuid;not null" json:"question_id"`
	QuestionPoolQuestionID uuid.UUID `gorm:"type:uuid;not null" json:"question_pool_question_id"`
	Order                  int       `gorm:"column:order;not null;default:0" json:"order"`

	helper.Audit `gorm:"embedded"`
}

func (QuestionSetQuestionModel) TableName() string { return "question_set_questions" }

type QuestionSetSubmissionModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuestionSetID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"question_set_id"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	StartTime         time.Time  `gorm:"not null" json:"start_time"`
	EndTime           *time.Time `json:"end_time,omitempty"`
	IsSubmissionError bool       `gorm:"not null;default:false" json:"is_submission_error"`
	SubmissionError   *string    `gorm:"type:text" json:"submission_error,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (QuestionSetSubmissionModel) TableName() string { return "question_set_submissions" }

// QuestionSetSubmissionAnswerModel keeps what was selected plus a snapshot of the question at grading time.
type QuestionSetSubmissionAnswerModel struct {
	ID                      uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuestionSetSubmissionID uuid.UUID      `gorm:"type:uuid;not null;index" json:"question_set_submission_id"`
	QuestionSetQuestionID   uuid.UUID      `gorm:"type:uuid;not null" json:"question_set_question_id"`
	SelectedOptionIDs       datatypes.JSON `gorm:"type:jsonb" json:"selected_option_ids"`
	IsCorrect               bool           `gorm:"not null;default:false" json:"is_correct"`
	Snapshot                datatypes.JSON `gorm:"type:jsonb" json:"snapshot,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (QuestionSetSubmissionAnswerModel) TableName() string { return "question_set_submission_answers" }

type QuestionSetResultModel struct {
	ID                      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuestionSetID           uuid.UUID `gorm:"type:uuid;not null;index" json:"question_set_id"`
	QuestionSetSubmissionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"question_set_submission_id"`
	UserID                  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TotalMark               float64   `gorm:"not null" json:"total_mark"`
	PositiveMark            float64   `gorm:"not null" json:"positive_mark"`
	NegativeMark            float64   `gorm:"not null" json:"negative_mark"`
	ObtainedMark            float64   `gorm:"not null" json:"obtained_mark"`
	IsPassed                bool      `gorm:"not null;default:false" json:"is_passed"`

	helper.Audit `gorm:"embedded"`
}

func (QuestionSetResultModel) TableName() string { return "question_set_results" }
