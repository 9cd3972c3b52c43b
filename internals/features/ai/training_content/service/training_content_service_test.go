package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	dto "academykit_backend/internals/features/ai/training_content/dto"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/openai"
)

type fakeAI struct {
	configured bool
	reply      string
	err        error
	got        []openai.ChatMessage
}

func (f *fakeAI) Configured() bool { return f.configured }

func (f *fakeAI) Complete(_ context.Context, m []openai.ChatMessage) (string, error) {
	f.got = m
	return f.reply, f.err
}

var actor = helper.CurrentUser{ID: uuid.New(), Role: constants.RoleTrainer}

func TestParseQuestions(t *testing.T) {
	raw := "Here you go:\n```json\n" + `[
	  {"name": "What does PPE stand for?", "options": [
	    {"option": "Personal protective equipment", "is_correct": true},
	    {"option": "Public power engine", "is_correct": false}]},
	  {"name": "Pick the hazards", "options": [
	    {"option": "Wet floor", "is_correct": true},
	    {"option": "Loose cable", "is_correct": true},
	    {"option": "Closed door", "is_correct": false}]},
	  {"name": "No correct answer", "options": [
	    {"option": "a", "is_correct": false},
	    {"option": "b", "is_correct": false}]},
	  {"name": "  ", "options": []}
	]` + "\n```"

	qs, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, constants.QuestionSingleChoice, qs[0].Type)
	assert.Equal(t, constants.QuestionMultipleChoice, qs[1].Type)
	assert.Equal(t, "Wet floor", qs[1].Options[0].Option)
}

func TestParseQuestions_Garbage(t *testing.T) {
	_, err := ParseQuestions("I cannot help with that.")
	assert.Error(t, err)
	_, err = ParseQuestions(`[{"name": "x", "options": [{"option": "a", "is_correct": false}]}]`)
	assert.Error(t, err)
}

func TestGenerate_NotConfigured(t *testing.T) {
	svc := NewTrainingContentService(&fakeAI{})
	_, err := svc.Generate(context.Background(), actor, dto.GenerateRequest{Kind: dto.KindCourse, Title: "Safety"})
	require.Error(t, err)
	assert.Equal(t, 503, helper.Classify(err).Status)
}

func TestGenerate_Description(t *testing.T) {
	ai := &fakeAI{configured: true, reply: "A short course."}
	svc := NewTrainingContentService(ai)
	out, err := svc.Generate(context.Background(), actor, dto.GenerateRequest{Kind: dto.KindLesson, Title: "Fire drills", Context: "Office of 40 people"})
	require.NoError(t, err)
	assert.Equal(t, "A short course.", out.Text)
	require.Len(t, ai.got, 2)
	assert.Contains(t, ai.got[1].Content, "Fire drills")
	assert.Contains(t, ai.got[1].Content, "Office of 40 people")
}

func TestGenerate_ProviderDown(t *testing.T) {
	svc := NewTrainingContentService(&fakeAI{configured: true, err: errors.New("breaker open")})
	_, err := svc.Generate(context.Background(), actor, dto.GenerateRequest{Kind: dto.KindCourse, Title: "Safety"})
	assert.Equal(t, 503, helper.Classify(err).Status)
}
