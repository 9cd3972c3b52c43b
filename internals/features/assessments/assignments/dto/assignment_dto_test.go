package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/assessments/assignments/model"
	helper "academykit_backend/internals/helpers"
)

func choice(typ string, correct ...bool) model.AssignmentModel {
	a := model.AssignmentModel{ID: uuid.New(), Name: "q", Type: typ}
	for _, c := range correct {
		a.Options = append(a.Options, model.AssignmentOptionModel{ID: uuid.New(), IsCorrect: c})
	}
	return a
}

func TestCheckAnswer_Choice(t *testing.T) {
	multi := choice(constants.QuestionMultipleChoice, true, false, true)

	ok, err := CheckAnswer(multi, AnswerRequest{SelectedOptionIDs: []uuid.UUID{multi.Options[2].ID, multi.Options[0].ID}})
	require.NoError(t, err)
	require.NotNil(t, ok)
	assert.True(t, *ok)

	partial, err := CheckAnswer(multi, AnswerRequest{SelectedOptionIDs: []uuid.UUID{multi.Options[0].ID}})
	require.NoError(t, err)
	assert.False(t, *partial)

	_, err = CheckAnswer(multi, AnswerRequest{SelectedOptionIDs: []uuid.UUID{uuid.New()}})
	assert.Equal(t, 422, helper.Classify(err).Status)

	_, err = CheckAnswer(multi, AnswerRequest{})
	assert.Error(t, err)
}

func TestCheckAnswer_SingleChoiceRejectsMany(t *testing.T) {
	single := choice(constants.QuestionSingleChoice, true, false)
	_, err := CheckAnswer(single, AnswerRequest{SelectedOptionIDs: []uuid.UUID{single.Options[0].ID, single.Options[1].ID}})
	assert.Error(t, err)
}

func TestCheckAnswer_Subjective(t *testing.T) {
	essay := model.AssignmentModel{ID: uuid.New(), Name: "essay", Type: constants.QuestionSubjective}

	verdict, err := CheckAnswer(essay, AnswerRequest{Answer: helper.StrPtr("my answer")})
	require.NoError(t, err)
	assert.Nil(t, verdict)

	_, err = CheckAnswer(essay, AnswerRequest{Answer: helper.StrPtr("")})
	assert.Error(t, err)
}

func TestSubmitRequest_NormalizeKeepsLast(t *testing.T) {
	id := uuid.New()
	other := uuid.New()
	r := SubmitRequest{Answers: []AnswerRequest{
		{AssignmentID: id, Answer: helper.StrPtr("first")},
		{AssignmentID: other, Answer: helper.StrPtr(" x ")},
		{AssignmentID: id, Answer: helper.StrPtr("second")},
	}}
	r.Normalize()

	require.Len(t, r.Answers, 2)
	assert.Equal(t, "second", *r.Answers[0].Answer)
	assert.Equal(t, "x", *r.Answers[1].Answer)
}

func TestAssignmentRequest_Validate(t *testing.T) {
	assert.NoError(t, AssignmentRequest{Name: "essay", Type: constants.QuestionSubjective}.Validate())
	assert.Error(t, AssignmentRequest{Name: "essay", Type: constants.QuestionSubjective,
		Options: []OptionRequest{{Option: "a"}}}.Validate())
	assert.Error(t, AssignmentRequest{Name: "pick", Type: constants.QuestionSingleChoice,
		Options: []OptionRequest{{Option: "a"}, {Option: "b"}}}.Validate())
}
