package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/certificates/external_certificates/model"
)

func TestEditable(t *testing.T) {
	assert.True(t, Editable(constants.StatusDraft))
	assert.True(t, Editable(constants.StatusRejected))
	assert.False(t, Editable(constants.StatusReview))
	assert.False(t, Editable(constants.StatusApproved))
}

func TestExternalCertificateRequest(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, 0, -1)
	r := ExternalCertificateRequest{Name: " First Aid ", Institute: " Red Cross ", StartDate: start, EndDate: &before, Duration: 8}
	r.Normalize()
	assert.Error(t, r.Validate())

	after := start.AddDate(0, 0, 2)
	r.EndDate = &after
	assert.NoError(t, r.Validate())

	var m model.ExternalCertificateModel
	r.Apply(&m)
	assert.Equal(t, "First Aid", m.Name)
	assert.Equal(t, "Red Cross", m.Institute)
	assert.Equal(t, 8, m.Duration)
}
