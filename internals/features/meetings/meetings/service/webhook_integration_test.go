//go:build integration

package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dto "academykit_backend/internals/features/meetings/meetings/dto"
	zoomModel "academykit_backend/internals/features/meetings/zoom/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/zoom"
	"academykit_backend/internals/testinfra"
)

const webhookSecret = "whsec-academykit"

type recordingQueue struct {
	mu   sync.Mutex
	jobs map[string][]any
}

func (r *recordingQueue) Enqueue(_ context.Context, topic string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.jobs == nil {
		r.jobs = map[string][]any{}
	}
	r.jobs[topic] = append(r.jobs[topic], payload)
	return nil
}

func saveZoomSettings(t *testing.T, db *gorm.DB, secret string, recording bool) {
	t.Helper()
	require.NoError(t, db.Create(&zoomModel.ZoomSettingModel{WebhookSecret: secret, IsRecordingEnabled: recording}).Error)
}

func signed(body string) (timestamp, signature string, raw []byte) {
	timestamp = strconv.FormatInt(time.Now().Unix(), 10)
	raw = []byte(body)
	return timestamp, zoom.WebhookSignature(webhookSecret, timestamp, raw), raw
}

func appStatus(t *testing.T, err error) int {
	t.Helper()
	var appErr *helper.AppError
	require.True(t, errors.As(err, &appErr), "want *AppError, got %v", err)
	return appErr.Status
}

func TestWebhook_URLValidation(t *testing.T) {
	db := testinfra.Postgres(t)
	saveZoomSettings(t, db, webhookSecret, false)
	svc := NewWebhookService(db, &recordingQueue{})

	ts, sig, body := signed(`{"event":"endpoint.url_validation","payload":{"plainToken":"qgg8vlvZRS6UYooatFL8Aw"}}`)
	out, err := svc.Handle(context.Background(), ts, sig, body)
	require.NoError(t, err)

	resp, ok := out.(dto.URLValidationResponse)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, "qgg8vlvZRS6UYooatFL8Aw", resp.PlainToken)
	assert.Equal(t, zoom.EncryptPlainToken(webhookSecret, "qgg8vlvZRS6UYooatFL8Aw"), resp.EncryptedToken)
}

func TestWebhook_SignatureMismatchIsUnauthorized(t *testing.T) {
	db := testinfra.Postgres(t)
	saveZoomSettings(t, db, webhookSecret, false)
	svc := NewWebhookService(db, &recordingQueue{})
	ctx := context.Background()

	ts, sig, _ := signed(`{"event":"endpoint.url_validation","payload":{"plainToken":"a"}}`)
	tampered := []byte(`{"event":"endpoint.url_validation","payload":{"plainToken":"b"}}`)

	_, err := svc.Handle(ctx, ts, sig, tampered)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, appStatus(t, err))

	_, err = svc.Handle(ctx, ts, "", tampered)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, appStatus(t, err))

	other := zoom.WebhookSignature("another-secret", ts, tampered)
	_, err = svc.Handle(ctx, ts, other, tampered)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, appStatus(t, err))
}

func TestWebhook_WithoutSecretIsUnavailable(t *testing.T) {
	db := testinfra.Postgres(t)
	svc := NewWebhookService(db, &recordingQueue{})

	ts, sig, body := signed(`{"event":"endpoint.url_validation","payload":{"plainToken":"a"}}`)
	_, err := svc.Handle(context.Background(), ts, sig, body)
	require.Error(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, appStatus(t, err))
}

func TestWebhook_RecordingCompletedIsQueuedWhenEnabled(t *testing.T) {
	ctx := context.Background()
	payload := `{"event":"recording.completed","download_token":"dl","payload":{"object":{"id":"81234567890","recording_files":[]}}}`

	t.Run("enabled", func(t *testing.T) {
		db := testinfra.Postgres(t)
		saveZoomSettings(t, db, webhookSecret, true)
		q := &recordingQueue{}
		ts, sig, body := signed(payload)

		out, err := NewWebhookService(db, q).Handle(ctx, ts, sig, body)
		require.NoError(t, err)
		assert.Nil(t, out)
		require.Len(t, q.jobs[TopicRecording], 1)
		job, ok := q.jobs[TopicRecording][0].(dto.RecordingJob)
		require.True(t, ok)
		assert.Equal(t, int64(81234567890), job.MeetingNumber)
		assert.Equal(t, "dl", job.DownloadToken)
	})

	t.Run("disabled", func(t *testing.T) {
		db := testinfra.Postgres(t)
		saveZoomSettings(t, db, webhookSecret, false)
		q := &recordingQueue{}
		ts, sig, body := signed(payload)

		_, err := NewWebhookService(db, q).Handle(ctx, ts, sig, body)
		require.NoError(t, err)
		assert.Empty(t, q.jobs)
	})
}

func TestWebhook_JoinForUnknownMeetingIsIgnored(t *testing.T) {
	db := testinfra.Postgres(t)
	saveZoomSettings(t, db, webhookSecret, false)
	ts, sig, body := signed(`{"event":"meeting.participant_joined","payload":{"object":{"id":1,"participant":{"user_name":"Guest","email":"guest@example.com"}}}}`)

	out, err := NewWebhookService(db, &recordingQueue{}).Handle(context.Background(), ts, sig, body)
	require.NoError(t, err)
	assert.Nil(t, out)
}
