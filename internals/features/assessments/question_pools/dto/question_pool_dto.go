package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"academykit_backend/internals/features/assessments/grading"
	model "academykit_backend/internals/features/assessments/question_pools/model"
	helper "academykit_backend/internals/helpers"
)

type PoolRequest struct {
	Name string `json:"name" validate:"required,min=2,max=250"`
}

func (r *PoolRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

type PoolResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	QuestionCount int64     `json:"question_count"`
	Role          string    `json:"role,omitempty"`
	CreatedOn     time.Time `json:"created_on"`
}

type AddTeacherRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *AddTeacherRequest) Normalize() { r.Email = strings.ToLower(strings.TrimSpace(r.Email)) }

type TeacherResponse struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

type OptionRequest struct {
	Option    string `json:"option" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionRequest struct {
	Name        string          `json:"name" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=SingleChoice MultipleChoice"`
	Description *string         `json:"description"`
	Hints       *string         `json:"hints"`
	Tags        []string        `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	Options     []OptionRequest `json:"options" validate:"required,dive"`
}

func (r *QuestionRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	tags := make([]string, 0, len(r.Tags))
	seen := map[string]bool{}
	for _, t := range r.Tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		tags = append(tags, t)
	}
	r.Tags = tags
	for i := range r.Options {
		r.Options[i].Option = strings.TrimSpace(r.Options[i].Option)
	}
}

func (r QuestionRequest) Validate() error {
	opts := make([]grading.OptionInput, len(r.Options))
	for i, o := range r.Options {
		opts[i] = grading.OptionInput{Option: o.Option, IsCorrect: o.IsCorrect}
	}
	return grading.ValidateOptions(r.Type, opts)
}

// ToOptions builds option rows numbered from 1.
func (r QuestionRequest) ToOptions(questionID, by uuid.UUID) []model.QuestionOptionModel {
	out := make([]model.QuestionOptionModel, len(r.Options))
	for i, o := range r.Options {
		out[i] = model.QuestionOptionModel{
			QuestionID: questionID,
			Option:     o.Option,
			IsCorrect:  o.IsCorrect,
			Order:      i + 1,
			Audit:      helper.NewAudit(by),
		}
	}
	return out
}

// QuestionResponse is a question as seen through its pool. Use PoolQuestionID to add it to a question set.
type QuestionResponse struct {
	PoolQuestionID uuid.UUID                   `json:"question_pool_question_id"`
	Order          int                         `json:"order"`
	ID             uuid.UUID                   `json:"id"`
	Name           string                      `json:"name"`
	Type           string                      `json:"type"`
	Description    *string                     `json:"description,omitempty"`
	Hints          *string                     `json:"hints,omitempty"`
	Tags           []string                    `json:"tags"`
	Options        []model.QuestionOptionModel `json:"options"`
	IsLocked       bool                        `json:"is_locked"`
	UpdatedOn      time.Time                   `json:"updated_on"`
}

func FromPoolQuestion(pq model.QuestionPoolQuestionModel, locked bool) QuestionResponse {
	out := QuestionResponse{PoolQuestionID: pq.ID, Order: pq.Order, IsLocked: locked, Tags: []string{}, Options: []model.QuestionOptionModel{}}
	if q := pq.Question; q != nil {
		out.ID, out.Name, out.Type = q.ID, q.Name, q.Type
		out.Description, out.Hints, out.UpdatedOn = q.Description, q.Hints, q.UpdatedOn
		if q.Tags != nil {
			out.Tags = q.Tags
		}
		if q.Options != nil {
			out.Options = q.Options
		}
	}
	return out
}
