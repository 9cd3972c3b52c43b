package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/courses/courses/model"
	helper "academykit_backend/internals/helpers"
)

func TestCreateCourseRequest(t *testing.T) {
	req := CreateCourseRequest{Name: "  Go Basics  "}
	req.Normalize()
	require.NoError(t, helper.ValidateStruct(req))
	require.NoError(t, req.Validate())

	m := req.ToModel(uuid.New())
	assert.Equal(t, "Go Basics", m.Name)
	assert.Equal(t, constants.StatusDraft, m.Status)
	assert.Equal(t, "en", m.Language)
	assert.True(t, m.IsUnlimitedEndDate)

	limited := false
	req.IsUnlimitedEndDate = &limited
	assert.Error(t, req.Validate(), "end_date is required when the end is limited")

	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)
	req.StartDate, req.EndDate = &start, &end
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, helper.Classify(err).Fields, "end_date")
}

func TestUpdateCourseRequestApply(t *testing.T) {
	var req UpdateCourseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Go Advanced","description":null,"group_id":null}`), &req))
	require.NoError(t, req.Validate())

	group := uuid.New()
	m := &model.CourseModel{Name: "Go", Description: helper.StrPtr("old"), GroupID: &group, Language: "en", IsUnlimitedEndDate: true}
	require.NoError(t, req.ApplyTo(m))
	assert.Equal(t, "Go Advanced", m.Name)
	assert.Nil(t, m.Description)
	assert.Nil(t, m.GroupID)
	assert.Equal(t, "en", m.Language)
}

func TestUpdateCourseRequestRejectsNullName(t *testing.T) {
	var req UpdateCourseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":null}`), &req))
	assert.Error(t, req.Validate())
}

func TestChangeStatusRequestRejectNeedsMessage(t *testing.T) {
	assert.Error(t, ChangeStatusRequest{Status: constants.StatusRejected}.Validate())
	assert.NoError(t, ChangeStatusRequest{Status: constants.StatusRejected, Message: helper.StrPtr("missing intro")}.Validate())
	assert.Error(t, helper.ValidateStruct(ChangeStatusRequest{Status: constants.StatusDraft}))
}
