package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "academykit_backend/internals/helpers"
)

func TestQuestionRequest_Normalize(t *testing.T) {
	r := QuestionRequest{
		Name:    "  What is a goroutine? ",
		Tags:    []string{" go ", "Go", "", "concurrency"},
		Options: []OptionRequest{{Option: " a thread "}, {Option: "a coroutine"}},
	}
	r.Normalize()
	assert.Equal(t, "What is a goroutine?", r.Name)
	assert.Equal(t, []string{"go", "concurrency"}, r.Tags)
	assert.Equal(t, "a thread", r.Options[0].Option)
}

func TestQuestionRequest_Validate(t *testing.T) {
	single := QuestionRequest{Type: "SingleChoice", Options: []OptionRequest{{Option: "a", IsCorrect: true}, {Option: "b", IsCorrect: true}}}
	err := single.Validate()
	require.Error(t, err)
	assert.Contains(t, helper.Classify(err).Fields, "options")

	single.Options[1].IsCorrect = false
	assert.NoError(t, single.Validate())

	multi := QuestionRequest{Type: "MultipleChoice", Options: []OptionRequest{{Option: "a"}, {Option: "b"}}}
	assert.Error(t, multi.Validate())

	tooFew := QuestionRequest{Type: "MultipleChoice", Options: []OptionRequest{{Option: "a", IsCorrect: true}}}
	assert.Error(t, tooFew.Validate())
}
