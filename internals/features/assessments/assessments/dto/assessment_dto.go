package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"academykit_backend/internals/constants"
	"academykit_backend/internals/features/assessments/grading"
	model "academykit_backend/internals/features/assessments/assessments/model"
	helper "academykit_backend/internals/helpers"
)

type AssessmentRequest struct {
	Title       string     `json:"title" validate:"required,min=3,max=250"`
	Description *string    `json:"description"`
	Retakes     int        `json:"retakes" validate:"gte=0,lte=100"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Duration    int        `json:"duration" validate:"gte=0"` // minutes
	Weightage   float64    `json:"weightage" validate:"gte=0,lte=100"`
	IsActive    *bool      `json:"is_active"`
}

func (r *AssessmentRequest) Normalize() { r.Title = strings.TrimSpace(r.Title) }

func (r AssessmentRequest) Validate() error {
	if r.StartDate != nil && r.EndDate != nil && !r.EndDate.After(*r.StartDate) {
		return helper.ErrFieldValidation("end_date", "end_date must be after start_date")
	}
	return nil
}

func (r AssessmentRequest) Apply(m *model.AssessmentModel) {
	m.Title = r.Title
	m.Description = r.Description
	m.Retakes = r.Retakes
	m.StartDate = r.StartDate
	m.EndDate = r.EndDate
	m.Duration = r.Duration
	m.Weightage = r.Weightage
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
}

type StatusRequest struct {
	Status  string  `json:"status" validate:"required,oneof=Review Published Rejected"`
	Message *string `json:"message" validate:"omitempty,max=1000"`
}

func (r StatusRequest) Validate() error {
	if r.Status == constants.StatusRejected && strings.TrimSpace(helper.Deref(r.Message)) == "" {
		return helper.ErrFieldValidation("message", "a message is required when rejecting")
	}
	return nil
}

type ListQuery struct {
	Status string `query:"status"`
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
	Options     []OptionRequest `json:"options" validate:"required,dive"`
}

func (r *QuestionRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
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

func (r QuestionRequest) ToOptions(questionID, by uuid.UUID) []model.AssessmentOptionModel {
	out := make([]model.AssessmentOptionModel, len(r.Options))
	for i, o := range r.Options {
		out[i] = model.AssessmentOptionModel{
			AssessmentQuestionID: questionID,
			Option:               o.Option,
			IsCorrect:            o.IsCorrect,
			Order:                i + 1,
			Audit:                helper.NewAudit(by),
		}
	}
	return out
}

type EligibilityRequest struct {
	Role         *string    `json:"role" validate:"omitempty,oneof=superadmin admin trainer trainee"`
	DepartmentID *uuid.UUID `json:"department_id"`
	GroupID      *uuid.UUID `json:"group_id"`
	TrainingID   *uuid.UUID `json:"training_id"`
}

func (r EligibilityRequest) Validate() error {
	if r.Role == nil && r.DepartmentID == nil && r.GroupID == nil && r.TrainingID == nil {
		return helper.ErrFieldValidation("role", "at least one criterion is required")
	}
	return nil
}

type AssessmentResponse struct {
	model.AssessmentModel
	QuestionCount int64 `json:"question_count"`
	IsAuthor      bool  `json:"is_author"`
	IsEligible    bool  `json:"is_eligible"`
	AttemptsUsed  int64 `json:"attempts_used"`
	AttemptsLeft  int64 `json:"attempts_left"`
	HasPassed     bool  `json:"has_passed"`
}

type ExamOption struct {
	ID     uuid.UUID `json:"id"`
	Option string    `json:"option"`
}

type ExamQuestion struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Description *string      `json:"description,omitempty"`
	Hints       *string      `json:"hints,omitempty"`
	Options     []ExamOption `json:"options"`
}

type ExamResponse struct {
	SubmissionID uuid.UUID      `json:"submission_id"`
	StartTime    time.Time      `json:"start_time"`
	Duration     int            `json:"duration"`
	Deadline     *time.Time     `json:"deadline,omitempty"`
	Resumed      bool           `json:"resumed"`
	Questions    []ExamQuestion `json:"questions"`
}

type AnswerRequest struct {
	AssessmentQuestionID uuid.UUID   `json:"assessment_question_id" validate:"required"`
	SelectedOptionIDs    []uuid.UUID `json:"selected_option_ids"`
}

type SubmitRequest struct {
	Answers []AnswerRequest `json:"answers" validate:"dive"`
}

func (r SubmitRequest) ToAnswers() []grading.Answer {
	out := make([]grading.Answer, len(r.Answers))
	for i, a := range r.Answers {
		out[i] = grading.Answer{QuestionID: a.AssessmentQuestionID, SelectedOptionIDs: a.SelectedOptionIDs}
	}
	return out
}

type SubmitResponse struct {
	SubmissionID      uuid.UUID `json:"submission_id"`
	IsSubmissionError bool      `json:"is_submission_error"`
	SubmissionError   string    `json:"submission_error,omitempty"`
	TotalMark         float64   `json:"total_mark"`
	ObtainedMark      float64   `json:"obtained_mark"`
	Percentage        float64   `json:"percentage"`
	IsPassed          bool      `json:"is_passed"`
}

type ResultRow struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ObtainedMark float64   `json:"obtained_mark"`
	TotalMark    float64   `json:"total_mark"`
	Percentage   float64   `json:"percentage"`
	IsPassed     bool      `json:"is_passed"`
	Attempts     int64     `json:"attempts"`
	SubmittedOn  time.Time `json:"submitted_on"`
}

type AttemptRow struct {
	SubmissionID      uuid.UUID  `json:"submission_id"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           *time.Time `json:"end_time,omitempty"`
	IsSubmissionError bool       `json:"is_submission_error"`
	SubmissionError   *string    `json:"submission_error,omitempty"`
	ObtainedMark      *float64   `json:"obtained_mark,omitempty"`
	TotalMark         *float64   `json:"total_mark,omitempty"`
	Percentage        *float64   `json:"percentage,omitempty"`
	IsPassed          *bool      `json:"is_passed,omitempty"`
}
