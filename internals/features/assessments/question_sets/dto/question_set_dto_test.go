package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAddQuestionsRequest_Normalize(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	r := AddQuestionsRequest{QuestionPoolQuestionIDs: []uuid.UUID{a, b, a, b, a}}
	r.Normalize()
	assert.Equal(t, []uuid.UUID{a, b}, r.QuestionPoolQuestionIDs)
}

func TestSubmitRequest_ToAnswers(t *testing.T) {
	q, o := uuid.New(), uuid.New()
	r := SubmitRequest{Answers: []AnswerRequest{{QuestionSetQuestionID: q, SelectedOptionIDs: []uuid.UUID{o}}}}
	got := r.ToAnswers()
	assert.Len(t, got, 1)
	assert.Equal(t, q, got[0].QuestionID)
	assert.Equal(t, []uuid.UUID{o}, got[0].SelectedOptionIDs)
}
