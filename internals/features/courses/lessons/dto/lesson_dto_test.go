package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/courses/lessons/model"
	helper "academykit_backend/internals/helpers"
)

func TestLessonRequest_Validate(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		req   LessonRequest
		field string
	}{
		{"video needs url", LessonRequest{Type: constants.LessonVideo}, "video_url"},
		{"document needs url", LessonRequest{Type: constants.LessonDocument}, "document_url"},
		{"exam needs settings", LessonRequest{Type: constants.LessonExam}, "exam"},
		{"live needs settings", LessonRequest{Type: constants.LessonLiveClass}, "live"},
		{"physical needs date", LessonRequest{Type: constants.LessonPhysical}, "start_date"},
		{"unknown type", LessonRequest{Type: "Podcast"}, "type"},
		{"exam window", LessonRequest{Type: constants.LessonExam, Exam: &ExamSettings{StartTime: &start, EndTime: &start}}, "exam.end_time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)
			assert.Contains(t, helper.Classify(err).Fields, tt.field)
		})
	}

	ok := LessonRequest{Type: constants.LessonVideo, VideoURL: helper.StrPtr("https://cdn.example.com/v.mp4")}
	assert.NoError(t, ok.Validate())
	assert.NoError(t, LessonRequest{Type: constants.LessonAssignment}.Validate())

	live := LessonRequest{Type: constants.LessonLiveClass, Live: &LiveSettings{StartDate: start}}
	assert.Error(t, live.Validate())
}

func TestLessonRequest_ApplyLive(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	req := LessonRequest{
		Name:   "Kickoff",
		Type:   constants.LessonLiveClass,
		Status: constants.StatusPublished,
		Live:   &LiveSettings{ZoomLicenseID: uuid.New(), StartDate: start, Duration: 3600},
	}
	var m model.LessonModel
	req.Apply(&m)
	assert.Equal(t, "Kickoff", m.Name)
	assert.Equal(t, 3600, m.Duration)
	require.NotNil(t, m.EndDate)
	assert.Equal(t, start.Add(time.Hour), *m.EndDate)
}

func TestCompletableByWatch(t *testing.T) {
	assert.True(t, CompletableByWatch(constants.LessonVideo))
	assert.True(t, CompletableByWatch(constants.LessonLiveClass))
	assert.False(t, CompletableByWatch(constants.LessonExam))
	assert.False(t, CompletableByWatch(constants.LessonAssignment))
	assert.False(t, CompletableByWatch(constants.LessonFeedback))
}
