package grading

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
)

var (
	q1, q2, q3    = uuid.New(), uuid.New(), uuid.New()
	q1a, q1b      = uuid.New(), uuid.New()
	q2a, q2b, q2c = uuid.New(), uuid.New(), uuid.New()
	q3a, q3b      = uuid.New(), uuid.New()
)

var sampleQuestions = []Question{
	{ID: q1, Type: constants.QuestionSingleChoice, Options: []Option{{q1a, true}, {q1b, false}}},
	{ID: q2, Type: constants.QuestionMultipleChoice, Options: []Option{{q2a, true}, {q2b, true}, {q2c, false}}},
	{ID: q3, Type: constants.QuestionSingleChoice, Mark: 3, Options: []Option{{q3a, false}, {q3b, true}}},
}

func TestGrade_MixedAnswers(t *testing.T) {
	answers := []Answer{
		{QuestionID: q1, SelectedOptionIDs: []uuid.UUID{q1a}},
		{QuestionID: q2, SelectedOptionIDs: []uuid.UUID{q2a}},
	}
	got, err := Grade(sampleQuestions, answers, Scheme{MarkPerQuestion: 2, NegativeMarking: 0.5, PassingWeightage: 40})
	require.NoError(t, err)

	want := Result{
		TotalMark:    7,
		PositiveMark: 2,
		NegativeMark: 0.5,
		ObtainedMark: 1.5,
		Percentage:   1.5 / 7 * 100,
		IsPassed:     false,
		Questions: []QuestionResult{
			{QuestionID: q1, Answered: true, IsCorrect: true, Mark: 2},
			{QuestionID: q2, Answered: true},
			{QuestionID: q3},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Grade() mismatch (-want +got):\n%s", diff)
	}
}

func TestGrade_AllCorrectPasses(t *testing.T) {
	answers := []Answer{
		{QuestionID: q1, SelectedOptionIDs: []uuid.UUID{q1a}},
		{QuestionID: q2, SelectedOptionIDs: []uuid.UUID{q2b, q2a, q2a}},
		{QuestionID: q3, SelectedOptionIDs: []uuid.UUID{q3b}},
	}
	got, err := Grade(sampleQuestions, answers, Scheme{MarkPerQuestion: 1, PassingWeightage: 100})
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.TotalMark)
	assert.Equal(t, 5.0, got.ObtainedMark)
	assert.True(t, got.IsPassed)
}

func TestGrade_ObtainedNeverNegative(t *testing.T) {
	answers := []Answer{
		{QuestionID: q1, SelectedOptionIDs: []uuid.UUID{q1b}},
		{QuestionID: q3, SelectedOptionIDs: []uuid.UUID{q3a}},
	}
	got, err := Grade(sampleQuestions, answers, Scheme{MarkPerQuestion: 1, NegativeMarking: 2})
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.NegativeMark)
	assert.Equal(t, 0.0, got.ObtainedMark)
	assert.True(t, got.IsPassed, "a zero threshold passes whenever total > 0")
}

func TestGrade_NoQuestionsNeverPasses(t *testing.T) {
	got, err := Grade(nil, nil, Scheme{MarkPerQuestion: 1})
	require.NoError(t, err)
	assert.False(t, got.IsPassed)
}

func TestGrade_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		answers []Answer
		field   string
	}{
		{"unknown question", []Answer{{QuestionID: uuid.New(), SelectedOptionIDs: []uuid.UUID{q1a}}}, "answers[0].question_id"},
		{"duplicate question", []Answer{{QuestionID: q1}, {QuestionID: q1}}, "answers[1].question_id"},
		{"unknown option", []Answer{{QuestionID: q1, SelectedOptionIDs: []uuid.UUID{q2a}}}, "answers[0].selected_option_ids"},
		{"two picks on single choice", []Answer{{QuestionID: q1, SelectedOptionIDs: []uuid.UUID{q1a, q1b}}}, "answers[0].selected_option_ids"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Grade(sampleQuestions, tt.answers, Scheme{MarkPerQuestion: 1})
			require.Error(t, err)
			appErr := helper.Classify(err)
			assert.Equal(t, 422, appErr.Status)
			assert.Contains(t, appErr.Fields, tt.field)
		})
	}
}

func TestAttempts(t *testing.T) {
	assert.Equal(t, 1, AttemptsAllowed(0))
	assert.Equal(t, 3, AttemptsAllowed(2))
	assert.True(t, CanAttempt(0, 0))
	assert.False(t, CanAttempt(1, 0))
	assert.True(t, CanAttempt(2, 2))
	assert.False(t, CanAttempt(3, 2))
}

func TestIsLate(t *testing.T) {
	start := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.False(t, IsLate(start, 10, start.Add(10*time.Minute+29*time.Second)))
	assert.True(t, IsLate(start, 10, start.Add(10*time.Minute+31*time.Second)))
	assert.False(t, IsLate(start, 0, start.Add(48*time.Hour)))
}

func TestWithinWindow(t *testing.T) {
	now := time.Now()
	before, after := now.Add(-time.Hour), now.Add(time.Hour)
	assert.True(t, WithinWindow(nil, nil, now))
	assert.True(t, WithinWindow(&before, &after, now))
	assert.False(t, WithinWindow(&after, nil, now))
	assert.False(t, WithinWindow(nil, &before, now))
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, Progress(0, 0))
	assert.Equal(t, 33, Progress(1, 3))
	assert.Equal(t, 66, Progress(2, 3))
	assert.Equal(t, 100, Progress(3, 3))
	assert.Equal(t, 100, Progress(5, 3))
}

func TestEligible(t *testing.T) {
	dept, group, course := uuid.New(), uuid.New(), uuid.New()
	trainer := constants.RoleTrainer
	user := Profile{
		Role:               constants.RoleTrainee,
		DepartmentID:       &dept,
		GroupIDs:           map[uuid.UUID]bool{group: true},
		CompletedTrainings: map[uuid.UUID]bool{},
	}

	assert.True(t, Eligible(nil, user))
	assert.True(t, Eligible([]Criterion{{DepartmentID: &dept, GroupID: &group}}, user))
	assert.False(t, Eligible([]Criterion{{DepartmentID: &dept, TrainingID: &course}}, user), "every field in a row must match")
	assert.True(t, Eligible([]Criterion{{Role: &trainer}, {GroupID: &group}}, user), "any row may match")
	assert.False(t, Eligible([]Criterion{{Role: &trainer}}, user))

	user.CompletedTrainings[course] = true
	assert.True(t, Eligible([]Criterion{{TrainingID: &course}}, user))
}

func TestValidateOptions(t *testing.T) {
	two := func(a, b bool) []OptionInput {
		return []OptionInput{{"A", a}, {"B", b}}
	}
	assert.NoError(t, ValidateOptions(constants.QuestionSingleChoice, two(true, false)))
	assert.Error(t, ValidateOptions(constants.QuestionSingleChoice, two(true, true)))
	assert.Error(t, ValidateOptions(constants.QuestionSingleChoice, two(false, false)))
	assert.NoError(t, ValidateOptions(constants.QuestionMultipleChoice, two(true, true)))
	assert.Error(t, ValidateOptions(constants.QuestionMultipleChoice, two(false, false)))
	assert.Error(t, ValidateOptions(constants.QuestionMultipleChoice, []OptionInput{{"A", true}}))
	assert.Error(t, ValidateOptions(constants.QuestionSingleChoice, []OptionInput{{"A", true}, {"  ", false}}))
	assert.NoError(t, ValidateOptions(constants.QuestionSubjective, nil))
	assert.Error(t, ValidateOptions(constants.QuestionSubjective, two(true, false)))
}
