package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/assessments/assignments/model"
	"academykit_backend/internals/features/assessments/grading"
	helper "academykit_backend/internals/helpers"
)

type OptionRequest struct {
	Option    string `json:"option" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type AssignmentRequest struct {
	Name        string          `json:"name" validate:"required"`
	Type        string          `json:"type" validate:"required,oneof=Subjective SingleChoice MultipleChoice"`
	Description *string         `json:"description"`
	Hints       *string         `json:"hints"`
	IsActive    *bool           `json:"is_active"`
	Options     []OptionRequest `json:"options" validate:"dive"`
}

func (r *AssignmentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	for i := range r.Options {
		r.Options[i].Option = strings.TrimSpace(r.Options[i].Option)
	}
}

func (r AssignmentRequest) Validate() error {
	opts := make([]grading.OptionInput, len(r.Options))
	for i, o := range r.Options {
		opts[i] = grading.OptionInput{Option: o.Option, IsCorrect: o.IsCorrect}
	}
	return grading.ValidateOptions(r.Type, opts)
}

func (r AssignmentRequest) ToOptions(assignmentID, by uuid.UUID) []model.AssignmentOptionModel {
	out := make([]model.AssignmentOptionModel, len(r.Options))
	for i, o := range r.Options {
		out[i] = model.AssignmentOptionModel{
			AssignmentID: assignmentID,
			Option:       o.Option,
			IsCorrect:    o.IsCorrect,
			Order:        i + 1,
			Audit:        helper.NewAudit(by),
		}
	}
	return out
}

type AnswerRequest struct {
	AssignmentID      uuid.UUID   `json:"assignment_id" validate:"required"`
	SelectedOptionIDs []uuid.UUID `json:"selected_option_ids"`
	Answer            *string     `json:"answer"`
}

type SubmitRequest struct {
	Answers []AnswerRequest `json:"answers" validate:"required,min=1,dive"`
}

// Normalize keeps the last answer per assignment.
func (r *SubmitRequest) Normalize() {
	seen := make(map[uuid.UUID]int, len(r.Answers))
	out := r.Answers[:0]
	for _, a := range r.Answers {
		if a.Answer != nil {
			t := strings.TrimSpace(*a.Answer)
			a.Answer = &t
		}
		if i, ok := seen[a.AssignmentID]; ok {
			out[i] = a
			continue
		}
		seen[a.AssignmentID] = len(out)
		out = append(out, a)
	}
	r.Answers = out
}

// CheckAnswer validates one answer against its question and auto-checks choice answers.
// Subjective answers return a nil verdict.
func CheckAnswer(a model.AssignmentModel, ans AnswerRequest) (*bool, error) {
	if !constants.Contains(constants.ChoiceQuestions, a.Type) {
		if ans.Answer == nil || *ans.Answer == "" {
			return nil, helper.ErrFieldValidation("answers", "an answer is required for "+a.Name)
		}
		return nil, nil
	}
	if len(ans.SelectedOptionIDs) == 0 {
		return nil, helper.ErrFieldValidation("answers", "select an option for "+a.Name)
	}
	q := grading.Question{ID: a.ID, Type: a.Type, Options: make([]grading.Option, len(a.Options))}
	known := make(map[uuid.UUID]bool, len(a.Options))
	for i, o := range a.Options {
		q.Options[i] = grading.Option{ID: o.ID, IsCorrect: o.IsCorrect}
		known[o.ID] = true
	}
	for _, id := range ans.SelectedOptionIDs {
		if !known[id] {
			return nil, helper.ErrFieldValidation("answers", "unknown option for "+a.Name)
		}
	}
	if a.Type == constants.QuestionSingleChoice && len(ans.SelectedOptionIDs) > 1 {
		return nil, helper.ErrFieldValidation("answers", "only one option may be selected for "+a.Name)
	}
	ok := grading.IsCorrectSelection(q, ans.SelectedOptionIDs)
	return &ok, nil
}

type ReviewRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Mark   float64   `json:"mark" validate:"gte=0,lte=100"`
	Review *string   `json:"review" validate:"omitempty,max=5000"`
}

// PassMark is the review mark needed to pass an assignment lesson.
const PassMark = 40

type LearnerOption struct {
	ID     uuid.UUID `json:"id"`
	Option string    `json:"option"`
}

// LearnerAssignment hides the correct options until the lesson is reviewed.
type LearnerAssignment struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	Description *string         `json:"description,omitempty"`
	Hints       *string         `json:"hints,omitempty"`
	Order       int             `json:"order"`
	Options     []LearnerOption `json:"options"`

	Submission *model.AssignmentSubmissionModel `json:"submission,omitempty"`
}

type LearnerView struct {
	Assignments []LearnerAssignment          `json:"assignments"`
	Review      *model.AssignmentReviewModel `json:"review,omitempty"`
}

type SubmitterRow struct {
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Answered    int64     `json:"answered"`
	Correct     int64     `json:"correct"`
	Mark        *float64  `json:"mark,omitempty"`
	IsPassed    *bool     `json:"is_passed,omitempty"`
	SubmittedOn time.Time `json:"submitted_on"`
}

type UserSubmission struct {
	Assignments []model.AssignmentModel           `json:"assignments"`
	Submissions []model.AssignmentSubmissionModel `json:"submissions"`
	Review      *model.AssignmentReviewModel      `json:"review,omitempty"`
}
