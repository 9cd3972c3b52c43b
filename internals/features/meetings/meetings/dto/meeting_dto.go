package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type JoinResponse struct {
	MeetingID     uuid.UUID `json:"meeting_id"`
	MeetingNumber int64     `json:"meeting_number"`
	Passcode      string    `json:"passcode"`
	Signature     string    `json:"signature"`
	SDKKey        string    `json:"sdk_key"`
	Role          int       `json:"role"`
	StartDate     time.Time `json:"start_date"`
	Duration      int       `json:"duration"`
	UserName      string    `json:"user_name"`
	UserEmail     string    `json:"user_email"`
}

// FlexInt64 accepts both 123 and "123"; Zoom sends meeting ids either way.
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*f = FlexInt64(n)
	return nil
}

type WebhookEvent struct {
	Event         string         `json:"event"`
	EventTS       int64          `json:"event_ts"`
	DownloadToken string         `json:"download_token"`
	Payload       WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	PlainToken string        `json:"plainToken"`
	AccountID  string        `json:"account_id"`
	Object     WebhookObject `json:"object"`
}

type WebhookObject struct {
	ID             FlexInt64       `json:"id"`
	UUID           string          `json:"uuid"`
	Topic          string          `json:"topic"`
	Participant    *Participant    `json:"participant,omitempty"`
	RecordingFiles []RecordingFile `json:"recording_files,omitempty"`
}

type Participant struct {
	UserID    string     `json:"user_id"`
	UserName  string     `json:"user_name"`
	Email     string     `json:"email"`
	JoinTime  *time.Time `json:"join_time,omitempty"`
	LeaveTime *time.Time `json:"leave_time,omitempty"`
}

type RecordingFile struct {
	ID            string `json:"id"`
	FileType      string `json:"file_type"`
	RecordingType string `json:"recording_type"`
	DownloadURL   string `json:"download_url"`
	Status        string `json:"status"`
	FileSize      int64  `json:"file_size"`
}

type URLValidationResponse struct {
	PlainToken     string `json:"plainToken"`
	EncryptedToken string `json:"encryptedToken"`
}

// RecordingJob is the zoom.recording payload.
type RecordingJob struct {
	MeetingNumber int64           `json:"meeting_number"`
	DownloadToken string          `json:"download_token"`
	Files         []RecordingFile `json:"files"`
}

// PickRecording prefers the combined screen+speaker MP4, then any completed MP4.
func PickRecording(files []RecordingFile) (RecordingFile, bool) {
	var fallback *RecordingFile
	for i := range files {
		f := files[i]
		if !strings.EqualFold(f.FileType, "MP4") || f.DownloadURL == "" {
			continue
		}
		if f.Status != "" && !strings.EqualFold(f.Status, "completed") {
			continue
		}
		if f.RecordingType == "shared_screen_with_speaker_view" {
			return f, true
		}
		if fallback == nil {
			fallback = &files[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return RecordingFile{}, false
}
