package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"academykit_backend/internals/constants"
	dto "academykit_backend/internals/features/ai/training_content/dto"
	"academykit_backend/internals/features/assessments/grading"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/openai"
)

// Completer is the chat-completions surface the generator needs.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, messages []openai.ChatMessage) (string, error)
}

type TrainingContentService struct {
	AI Completer
}

func NewTrainingContentService(ai Completer) *TrainingContentService {
	return &TrainingContentService{AI: ai}
}

const systemPrompt = "You write concise, accurate corporate training material. Reply in the language of the title."

// Prompt builds the chat for one generation request.
func Prompt(req dto.GenerateRequest) []openai.ChatMessage {
	var b strings.Builder
	switch req.Kind {
	case dto.KindCourse:
		fmt.Fprintf(&b, "Write a course description of at most 200 words for a training titled %q.", req.Title)
	case dto.KindLesson:
		fmt.Fprintf(&b, "Write a lesson description of at most 120 words for a lesson titled %q.", req.Title)
	case dto.KindQuestions:
		fmt.Fprintf(&b, "Write %d multiple choice quiz questions about %q. ", req.Count, req.Title)
		b.WriteString(`Reply with only a JSON array, each item shaped {"name": string, "description": string, "options": [{"option": string, "is_correct": bool}]}, with four options per question.`)
	}
	if req.Context != "" {
		b.WriteString("\n\nBackground:\n")
		b.WriteString(req.Context)
	}
	return []openai.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

// ParseQuestions pulls the JSON array out of a model reply and keeps the questions that
// pass the choice option rules.
func ParseQuestions(raw string) ([]dto.GeneratedQuestion, error) {
	start, end := strings.Index(raw, "["), strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, errors.New("no JSON array in reply")
	}
	var items []dto.GeneratedQuestion
	if err := sonic.UnmarshalString(raw[start:end+1], &items); err != nil {
		return nil, errors.Wrap(err, "decode questions")
	}

	out := make([]dto.GeneratedQuestion, 0, len(items))
	for _, q := range items {
		q.Name = strings.TrimSpace(q.Name)
		if q.Name == "" {
			continue
		}
		opts := make([]grading.OptionInput, len(q.Options))
		correct := 0
		for i := range q.Options {
			q.Options[i].Option = strings.TrimSpace(q.Options[i].Option)
			opts[i] = grading.OptionInput{Option: q.Options[i].Option, IsCorrect: q.Options[i].IsCorrect}
			if q.Options[i].IsCorrect {
				correct++
			}
		}
		q.Type = constants.QuestionMultipleChoice
		if correct == 1 {
			q.Type = constants.QuestionSingleChoice
		}
		if grading.ValidateOptions(q.Type, opts) != nil {
			continue
		}
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, errors.New("reply held no usable questions")
	}
	return out, nil
}

func (s *TrainingContentService) Generate(ctx context.Context, actor helper.CurrentUser, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	if s.AI == nil || !s.AI.Configured() {
		return nil, helper.ErrUnavailable("AI content generation is not configured", nil)
	}
	reply, err := s.AI.Complete(ctx, Prompt(req))
	if err != nil {
		return nil, helper.ErrUnavailable("AI provider is unavailable", err)
	}
	out := &dto.GenerateResponse{Kind: req.Kind}
	if req.Kind != dto.KindQuestions {
		out.Text = reply
		return out, nil
	}
	out.Questions, err = ParseQuestions(reply)
	if err != nil {
		log.Warn().Err(err).Str("user_id", actor.ID.String()).Msg("[AI] unusable question reply")
		return nil, helper.ErrService("AI reply could not be turned into questions", err)
	}
	return out, nil
}
