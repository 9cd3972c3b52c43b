package dto

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/assessments/feedbacks/model"
	helper "academykit_backend/internals/helpers"
)

type FeedbackRequest struct {
	Name     string   `json:"name" validate:"required"`
	Type     string   `json:"type" validate:"required,oneof=Subjective SingleChoice MultipleChoice Rating"`
	IsActive *bool    `json:"is_active"`
	Options  []string `json:"options"`
}

func (r *FeedbackRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	for i := range r.Options {
		r.Options[i] = strings.TrimSpace(r.Options[i])
	}
}

// Validate: choice questions need two or more options, the rest none. Feedback has no
// correct answer.
func (r FeedbackRequest) Validate() error {
	if !constants.Contains(constants.ChoiceQuestions, r.Type) {
		if len(r.Options) > 0 {
			return helper.ErrFieldValidation("options", "only choice questions take options")
		}
		return nil
	}
	if len(r.Options) < 2 {
		return helper.ErrFieldValidation("options", "at least two options are required")
	}
	for i, o := range r.Options {
		if o == "" {
			return helper.ErrFieldValidation(fmt.Sprintf("options[%d]", i), "option text is required")
		}
	}
	return nil
}

func (r FeedbackRequest) ToOptions(feedbackID, by uuid.UUID) []model.FeedbackOptionModel {
	out := make([]model.FeedbackOptionModel, len(r.Options))
	for i, o := range r.Options {
		out[i] = model.FeedbackOptionModel{FeedbackID: feedbackID, Option: o, Order: i + 1, Audit: helper.NewAudit(by)}
	}
	return out
}

type AnswerRequest struct {
	FeedbackID        uuid.UUID   `json:"feedback_id" validate:"required"`
	SelectedOptionIDs []uuid.UUID `json:"selected_option_ids"`
	Answer            *string     `json:"answer"`
	Rating            *int        `json:"rating" validate:"omitempty,min=1,max=5"`
}

type SubmitRequest struct {
	Answers []AnswerRequest `json:"answers" validate:"required,min=1,dive"`
}

func (r *SubmitRequest) Normalize() {
	for i := range r.Answers {
		if a := r.Answers[i].Answer; a != nil {
			t := strings.TrimSpace(*a)
			r.Answers[i].Answer = &t
		}
	}
}

// CheckAnswer enforces the answer shape each feedback type expects.
func CheckAnswer(f model.FeedbackModel, a AnswerRequest) error {
	switch f.Type {
	case constants.QuestionRating:
		if a.Rating == nil {
			return helper.ErrFieldValidation("answers", "a rating from 1 to 5 is required for "+f.Name)
		}
	case constants.QuestionSubjective:
		if a.Answer == nil || *a.Answer == "" {
			return helper.ErrFieldValidation("answers", "an answer is required for "+f.Name)
		}
	default:
		if len(a.SelectedOptionIDs) == 0 {
			return helper.ErrFieldValidation("answers", "select an option for "+f.Name)
		}
		if f.Type == constants.QuestionSingleChoice && len(a.SelectedOptionIDs) > 1 {
			return helper.ErrFieldValidation("answers", "only one option may be selected for "+f.Name)
		}
		known := make(map[uuid.UUID]bool, len(f.Options))
		for _, o := range f.Options {
			known[o.ID] = true
		}
		for _, id := range a.SelectedOptionIDs {
			if !known[id] {
				return helper.ErrFieldValidation("answers", "unknown option for "+f.Name)
			}
		}
	}
	return nil
}

// AnswerText renders one submission for the export.
func AnswerText(f model.FeedbackModel, s model.FeedbackSubmissionModel) string {
	switch f.Type {
	case constants.QuestionRating:
		if s.Rating == nil {
			return ""
		}
		return fmt.Sprint(*s.Rating)
	case constants.QuestionSubjective:
		return helper.Deref(s.Answer)
	}
	labels := make(map[string]string, len(f.Options))
	for _, o := range f.Options {
		labels[o.ID.String()] = o.Option
	}
	picked := make([]string, 0, len(s.SelectedOptionIDs))
	for _, id := range s.SelectedOptionIDs {
		if l, ok := labels[id]; ok {
			picked = append(picked, l)
		}
	}
	return strings.Join(picked, "; ")
}

type FeedbackView struct {
	model.FeedbackModel
	Submission *model.FeedbackSubmissionModel `json:"submission,omitempty"`
}

type LearnerView struct {
	Feedbacks   []FeedbackView `json:"feedbacks"`
	IsSubmitted bool           `json:"is_submitted"`
}
