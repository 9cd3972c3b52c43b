package service

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	poolModel "academykit_backend/internals/features/assessments/question_pools/model"
	model "academykit_backend/internals/features/assessments/question_sets/model"
)

func TestExamQuestions_HidesAnswers(t *testing.T) {
	qid := uuid.New()
	rows := []model.QuestionSetQuestionModel{
		{ID: uuid.New(), QuestionID: qid, Order: 1},
		{ID: uuid.New(), QuestionID: uuid.New(), Order: 2}, // question removed from the pool
	}
	questions := map[uuid.UUID]*poolModel.QuestionModel{
		qid: {ID: qid, Name: "2+2?", Type: constants.QuestionSingleChoice, Options: []poolModel.QuestionOptionModel{
			{ID: uuid.New(), Option: "4", IsCorrect: true},
			{ID: uuid.New(), Option: "5"},
		}},
	}
	got := examQuestions(rows, questions)
	require.Len(t, got, 1)
	assert.Equal(t, rows[0].ID, got[0].ID)
	assert.Len(t, got[0].Options, 2)

	raw, err := sonic.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "is_correct")
}

func TestStartResponse_Deadline(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	sub := &model.QuestionSetSubmissionModel{ID: uuid.New(), StartTime: start}

	timed := startResponse(sub, 20, false, nil)
	require.NotNil(t, timed.Deadline)
	assert.Equal(t, start.Add(20*time.Minute+30*time.Second), *timed.Deadline)

	untimed := startResponse(sub, 0, true, nil)
	assert.Nil(t, untimed.Deadline)
	assert.True(t, untimed.Resumed)
}
