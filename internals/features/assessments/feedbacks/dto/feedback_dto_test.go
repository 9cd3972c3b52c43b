package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/assessments/feedbacks/model"
	helper "academykit_backend/internals/helpers"
)

func TestFeedbackRequest_Validate(t *testing.T) {
	assert.NoError(t, FeedbackRequest{Name: "rate us", Type: constants.QuestionRating}.Validate())
	assert.NoError(t, FeedbackRequest{Name: "pace", Type: constants.QuestionSingleChoice, Options: []string{"slow", "fast"}}.Validate())
	assert.Error(t, FeedbackRequest{Name: "pace", Type: constants.QuestionSingleChoice, Options: []string{"slow"}}.Validate())
	assert.Error(t, FeedbackRequest{Name: "pace", Type: constants.QuestionMultipleChoice, Options: []string{"slow", ""}}.Validate())
	assert.Error(t, FeedbackRequest{Name: "notes", Type: constants.QuestionSubjective, Options: []string{"x"}}.Validate())
}

func TestCheckAnswer(t *testing.T) {
	opt := uuid.New()
	pick := model.FeedbackModel{Name: "pace", Type: constants.QuestionSingleChoice, Options: []model.FeedbackOptionModel{{ID: opt}, {ID: uuid.New()}}}
	rating := model.FeedbackModel{Name: "stars", Type: constants.QuestionRating}
	essay := model.FeedbackModel{Name: "notes", Type: constants.QuestionSubjective}
	four := 4

	assert.NoError(t, CheckAnswer(pick, AnswerRequest{SelectedOptionIDs: []uuid.UUID{opt}}))
	assert.Error(t, CheckAnswer(pick, AnswerRequest{SelectedOptionIDs: []uuid.UUID{uuid.New()}}))
	assert.Error(t, CheckAnswer(pick, AnswerRequest{SelectedOptionIDs: []uuid.UUID{opt, pick.Options[1].ID}}))
	assert.NoError(t, CheckAnswer(rating, AnswerRequest{Rating: &four}))
	assert.Error(t, CheckAnswer(rating, AnswerRequest{}))
	assert.NoError(t, CheckAnswer(essay, AnswerRequest{Answer: helper.StrPtr("good")}))
	assert.Error(t, CheckAnswer(essay, AnswerRequest{Answer: helper.StrPtr("")}))
}

func TestAnswerText(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	multi := model.FeedbackModel{Type: constants.QuestionMultipleChoice, Options: []model.FeedbackOptionModel{
		{ID: a, Option: "videos"}, {ID: b, Option: "quizzes"},
	}}
	got := AnswerText(multi, model.FeedbackSubmissionModel{SelectedOptionIDs: pq.StringArray{a.String(), b.String()}})
	assert.Equal(t, "videos; quizzes", got)

	three := 3
	assert.Equal(t, "3", AnswerText(model.FeedbackModel{Type: constants.QuestionRating}, model.FeedbackSubmissionModel{Rating: &three}))
	assert.Equal(t, "", AnswerText(model.FeedbackModel{Type: constants.QuestionRating}, model.FeedbackSubmissionModel{}))
}
