package zoom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// MeetingRequest is the subset of Zoom's meeting body we send.
type MeetingRequest struct {
	Topic     string           `json:"topic,omitempty"`
	Type      int              `json:"type"`
	StartTime string           `json:"start_time,omitempty"`
	Duration  int              `json:"duration,omitempty"` // minutes
	Timezone  string           `json:"timezone,omitempty"`
	Password  string           `json:"password,omitempty"`
	Settings  *MeetingSettings `json:"settings,omitempty"`
}

type MeetingSettings struct {
	JoinBeforeHost   bool   `json:"join_before_host"`
	WaitingRoom      bool   `json:"waiting_room"`
	AutoRecording    string `json:"auto_recording,omitempty"`
	MuteUponEntry    bool   `json:"mute_upon_entry"`
	ApprovalType     int    `json:"approval_type"`
	HostVideo        bool   `json:"host_video"`
	ParticipantVideo bool   `json:"participant_video"`
}

type Meeting struct {
	ID        int64  `json:"id"`
	UUID      string `json:"uuid"`
	HostID    string `json:"host_id"`
	Topic     string `json:"topic"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Password  string `json:"password"`
	JoinURL   string `json:"join_url"`
}

// NewScheduledMeeting builds a type-2 meeting request. durationSeconds is rounded up to whole minutes.
func NewScheduledMeeting(topic string, start time.Time, durationSeconds int, record bool) MeetingRequest {
	minutes := (durationSeconds + 59) / 60
	if minutes < 1 {
		minutes = 1
	}
	rec := "none"
	if record {
		rec = "cloud"
	}
	return MeetingRequest{
		Topic:     topic,
		Type:      2,
		StartTime: start.UTC().Format("2006-01-02T15:04:05Z"),
		Duration:  minutes,
		Timezone:  "UTC",
		Settings: &MeetingSettings{
			JoinBeforeHost: false,
			WaitingRoom:    false,
			AutoRecording:  rec,
			MuteUponEntry:  true,
			ApprovalType:   2,
		},
	}
}

func (c *Client) CreateMeeting(ctx context.Context, hostID string, req MeetingRequest) (*Meeting, error) {
	out, err := c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(hostID)+"/meetings", req)
	if err != nil {
		return nil, err
	}
	var m Meeting
	if err := sonic.Unmarshal(out, &m); err != nil {
		return nil, errors.Wrap(err, "decode zoom meeting")
	}
	return &m, nil
}

func (c *Client) UpdateMeeting(ctx context.Context, meetingID int64, req MeetingRequest) error {
	_, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/meetings/%d", meetingID), req)
	return err
}

// DeleteMeeting treats an already-deleted meeting as success.
func (c *Client) DeleteMeeting(ctx context.Context, meetingID int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/meetings/%d", meetingID), nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return nil
	}
	return err
}

// DownloadRecording streams a recording file using the webhook download token.
func (c *Client) DownloadRecording(ctx context.Context, downloadURL, token string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "download recording")
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, 0, &APIError{Status: resp.StatusCode, Body: "download failed"}
	}
	return resp.Body, resp.ContentLength, nil
}
