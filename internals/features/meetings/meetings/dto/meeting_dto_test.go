package dto

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt64(t *testing.T) {
	var obj WebhookObject
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":"85746065432"}`), &obj))
	assert.Equal(t, FlexInt64(85746065432), obj.ID)

	require.NoError(t, sonic.Unmarshal([]byte(`{"id":85746065433}`), &obj))
	assert.Equal(t, FlexInt64(85746065433), obj.ID)

	require.NoError(t, sonic.Unmarshal([]byte(`{"id":null}`), &obj))
	assert.Equal(t, FlexInt64(0), obj.ID)

	assert.Error(t, sonic.Unmarshal([]byte(`{"id":"abc"}`), &obj))
}

func TestPickRecording(t *testing.T) {
	files := []RecordingFile{
		{ID: "a", FileType: "M4A", RecordingType: "audio_only", DownloadURL: "https://z/a", Status: "completed"},
		{ID: "b", FileType: "MP4", RecordingType: "active_speaker", DownloadURL: "https://z/b", Status: "completed"},
		{ID: "c", FileType: "MP4", RecordingType: "shared_screen_with_speaker_view", DownloadURL: "https://z/c", Status: "completed"},
	}
	got, ok := PickRecording(files)
	require.True(t, ok)
	assert.Equal(t, "c", got.ID)

	got, ok = PickRecording(files[:2])
	require.True(t, ok)
	assert.Equal(t, "b", got.ID)

	_, ok = PickRecording([]RecordingFile{
		{ID: "d", FileType: "MP4", DownloadURL: "https://z/d", Status: "processing"},
		{ID: "e", FileType: "MP4"},
	})
	assert.False(t, ok)
}

func TestWebhookEventDecode(t *testing.T) {
	body := []byte(`{
		"event": "meeting.participant_joined",
		"event_ts": 1700000000000,
		"payload": {
			"account_id": "acc",
			"object": {
				"id": "123456789",
				"participant": {"user_name": "Ana", "email": "ana@example.com", "join_time": "2024-01-02T10:00:00Z"}
			}
		}
	}`)
	var ev WebhookEvent
	require.NoError(t, sonic.Unmarshal(body, &ev))
	assert.Equal(t, "meeting.participant_joined", ev.Event)
	assert.Equal(t, FlexInt64(123456789), ev.Payload.Object.ID)
	require.NotNil(t, ev.Payload.Object.Participant)
	assert.Equal(t, "ana@example.com", ev.Payload.Object.Participant.Email)
	require.NotNil(t, ev.Payload.Object.Participant.JoinTime)
	assert.Equal(t, 10, ev.Payload.Object.Participant.JoinTime.Hour())
}
