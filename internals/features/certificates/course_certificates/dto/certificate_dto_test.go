package dto

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCertificateURL(t *testing.T) {
	id := uuid.MustParse("8f2c3b1e-58a4-4f1c-9a57-6b0d3e2a7c11")
	want := "https://learn.example.com/certificate/8f2c3b1e-58a4-4f1c-9a57-6b0d3e2a7c11"
	assert.Equal(t, want, CertificateURL("https://learn.example.com/", id))
	assert.Equal(t, want, CertificateURL("https://learn.example.com", id))
}

func TestIssueRequest_Validate(t *testing.T) {
	assert.Error(t, IssueRequest{}.Validate())
	assert.NoError(t, IssueRequest{IssueAll: true}.Validate())
	assert.NoError(t, IssueRequest{UserIDs: []uuid.UUID{uuid.New()}}.Validate())
}

func TestCertificateRequest_Validate(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	assert.NoError(t, CertificateRequest{Title: "x", EventStartDate: &start, EventEndDate: &end}.Validate())
	assert.Error(t, CertificateRequest{Title: "x", EventStartDate: &end, EventEndDate: &start}.Validate())
}
