package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/assessments/assessments/model"
	"academykit_backend/internals/features/assessments/grading"
	helper "academykit_backend/internals/helpers"
)

func TestCheckStatus(t *testing.T) {
	cases := []struct {
		name          string
		from, to      string
		admin, author bool
		status        int
	}{
		{"author submits draft", constants.StatusDraft, constants.StatusReview, false, true, 0},
		{"author resubmits rejected", constants.StatusRejected, constants.StatusReview, false, true, 0},
		{"stranger cannot submit", constants.StatusDraft, constants.StatusReview, false, false, 403},
		{"author cannot publish", constants.StatusReview, constants.StatusPublished, false, true, 403},
		{"admin publishes review", constants.StatusReview, constants.StatusPublished, true, false, 0},
		{"admin rejects review", constants.StatusReview, constants.StatusRejected, true, false, 0},
		{"admin cannot publish draft", constants.StatusDraft, constants.StatusPublished, true, true, 409},
		{"admin pulls back published", constants.StatusPublished, constants.StatusReview, true, false, 0},
		{"author cannot pull back published", constants.StatusPublished, constants.StatusReview, false, true, 409},
		{"draft is not a target", constants.StatusReview, constants.StatusDraft, true, false, 422},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckStatus(tc.from, tc.to, tc.admin, tc.author)
			if tc.status == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tc.status, helper.Classify(err).Status)
		})
	}
}

func TestCanManage(t *testing.T) {
	author := uuid.New()
	a := &model.AssessmentModel{Audit: helper.NewAudit(author)}

	assert.True(t, canManage(a, helper.CurrentUser{ID: author, Role: constants.RoleTrainer}))
	assert.True(t, canManage(a, helper.CurrentUser{ID: uuid.New(), Role: constants.RoleAdmin}))
	assert.False(t, canManage(a, helper.CurrentUser{ID: uuid.New(), Role: constants.RoleTrainer}))
}

func TestExamQuestionsHideAnswers(t *testing.T) {
	rows := []model.AssessmentQuestionModel{{
		ID:   uuid.New(),
		Name: "2 + 2",
		Type: constants.QuestionSingleChoice,
		Options: []model.AssessmentOptionModel{
			{ID: uuid.New(), Option: "4", IsCorrect: true},
			{ID: uuid.New(), Option: "5"},
		},
	}}
	out := examQuestions(rows)
	require.Len(t, out, 1)
	require.Len(t, out[0].Options, 2)
	assert.Equal(t, "4", out[0].Options[0].Option)
	assert.Equal(t, rows[0].Options[1].ID, out[0].Options[1].ID)
}

func TestExamResponseDeadline(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	sub := &model.AssessmentSubmissionModel{ID: uuid.New(), StartTime: start}

	timed := examResponse(sub, 45, false, nil)
	require.NotNil(t, timed.Deadline)
	assert.Equal(t, start.Add(45*time.Minute+grading.Grace), *timed.Deadline)

	untimed := examResponse(sub, 0, true, nil)
	assert.Nil(t, untimed.Deadline)
	assert.True(t, untimed.Resumed)
}
