package dto

import "strings"

const (
	KindCourse    = "course"
	KindLesson    = "lesson"
	KindQuestions = "questions"
)

type GenerateRequest struct {
	Kind    string `json:"kind" validate:"required,oneof=course lesson questions"`
	Title   string `json:"title" validate:"required,max=250"`
	Context string `json:"context" validate:"max=4000"`
	Count   int    `json:"count" validate:"omitempty,min=1,max=20"`
}

func (r *GenerateRequest) Normalize() {
	r.Kind = strings.ToLower(strings.TrimSpace(r.Kind))
	r.Title = strings.TrimSpace(r.Title)
	r.Context = strings.TrimSpace(r.Context)
	if r.Kind == KindQuestions && r.Count == 0 {
		r.Count = 5
	}
}

type GeneratedOption struct {
	Option    string `json:"option"`
	IsCorrect bool   `json:"is_correct"`
}

// GeneratedQuestion matches the question pool question payload.
type GeneratedQuestion struct {
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Type        string            `json:"type"`
	Options     []GeneratedOption `json:"options"`
}

type GenerateResponse struct {
	Kind      string              `json:"kind"`
	Text      string              `json:"text,omitempty"`
	Questions []GeneratedQuestion `json:"questions,omitempty"`
}
