package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	helper "academykit_backend/internals/helpers"
)

type QuestionPoolModel struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"size:250;not null;uniqueIndex:uq_question_pools_name_lower,expression:lower(name)" json:"name"`
	Slug string    `gorm:"size:250;not null;uniqueIndex" json:"slug"`

	Teachers  []QuestionPoolTeacherModel  `gorm:"foreignKey:QuestionPoolID;constraint:OnDelete:CASCADE" json:"-"`
	Questions []QuestionPoolQuestionModel `gorm:"foreignKey:QuestionPoolID;constraint:OnDelete:CASCADE" json:"-"`

	helper.Audit `gorm:"embedded"`
}

func (QuestionPoolModel) TableName() string { return "question_pools" }

type QuestionPoolTeacherModel struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuestionPoolID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_pool_teachers_pair" json:"question_pool_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_pool_teachers_pair" json:"user_id"`
	Role           string    `gorm:"type:varchar(20);not null" json:"role"`

	helper.Audit `gorm:"embedded"`
}

func (QuestionPoolTeacherModel) TableName() string { return "question_pool_teachers" }

type QuestionModel struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string         `gorm:"type:text;not null" json:"name"`
	Type        string         `gorm:"type:varchar(20);not null" json:"type"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	Hints       *string        `gorm:"type:text" json:"hints,omitempty"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`

	Options []QuestionOptionModel `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (QuestionModel) TableName() string { return "questions" }

type QuestionOptionModel struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Option     string    `gorm:"type:text;not null" json:"option"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
	Order      int       `gorm:"column:order;not null;default:0" json:"order"`

	helper.Audit `gorm:"embedded"`
}

func (QuestionOptionModel) TableName() string { return "question_options" }

type QuestionPoolQuestionModel struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	QuestionPoolID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_pool_id"`
	QuestionID     uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Order          int       `gorm:"column:order;not null;default:0" json:"order"`

	Question *QuestionModel `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"question,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (QuestionPoolQuestionModel) TableName() string { return "question_pool_questions" }
