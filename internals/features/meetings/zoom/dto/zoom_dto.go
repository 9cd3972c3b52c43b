package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "academykit_backend/internals/features/meetings/zoom/model"
)

// SettingsRequest leaves a secret untouched when it is sent empty.
type SettingsRequest struct {
	WebhookSecret      string `json:"webhook_secret" validate:"omitempty,max=255"`
	OAuthAccountID     string `json:"oauth_account_id" validate:"omitempty,max=255"`
	OAuthClientID      string `json:"oauth_client_id" validate:"omitempty,max=255"`
	OAuthClientSecret  string `json:"oauth_client_secret" validate:"omitempty,max=255"`
	SDKKey             string `json:"sdk_key" validate:"omitempty,max=255"`
	SDKSecret          string `json:"sdk_secret" validate:"omitempty,max=255"`
	IsRecordingEnabled bool   `json:"is_recording_enabled"`
}

func (r *SettingsRequest) Normalize() {
	for _, p := range []*string{&r.WebhookSecret, &r.OAuthAccountID, &r.OAuthClientID, &r.OAuthClientSecret, &r.SDKKey, &r.SDKSecret} {
		*p = strings.TrimSpace(*p)
	}
}

func (r SettingsRequest) ApplyTo(m *model.ZoomSettingModel) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&m.WebhookSecret, r.WebhookSecret)
	set(&m.OAuthAccountID, r.OAuthAccountID)
	set(&m.OAuthClientID, r.OAuthClientID)
	set(&m.OAuthClientSecret, r.OAuthClientSecret)
	set(&m.SDKKey, r.SDKKey)
	set(&m.SDKSecret, r.SDKSecret)
	m.IsRecordingEnabled = r.IsRecordingEnabled
}

// SettingsResponse says which secrets are configured without revealing them.
type SettingsResponse struct {
	HasWebhookSecret   bool       `json:"has_webhook_secret"`
	HasOAuth           bool       `json:"has_oauth"`
	HasSDK             bool       `json:"has_sdk"`
	OAuthClientID      string     `json:"oauth_client_id"`
	IsRecordingEnabled bool       `json:"is_recording_enabled"`
	UpdatedOn          *time.Time `json:"updated_on,omitempty"`
}

func SettingsFromModel(m *model.ZoomSettingModel) SettingsResponse {
	out := SettingsResponse{
		HasWebhookSecret:   m.WebhookSecret != "",
		HasOAuth:           m.OAuthAccountID != "" && m.OAuthClientID != "" && m.OAuthClientSecret != "",
		HasSDK:             m.SDKKey != "" && m.SDKSecret != "",
		OAuthClientID:      m.OAuthClientID,
		IsRecordingEnabled: m.IsRecordingEnabled,
	}
	if m.ID != uuid.Nil {
		t := m.UpdatedOn
		out.UpdatedOn = &t
	}
	return out
}

type LicenseRequest struct {
	LicenseEmail string `json:"license_email" validate:"required,email,max=255"`
	HostID       string `json:"host_id" validate:"required,max=100"`
	Capacity     int    `json:"capacity" validate:"required,min=1,max=100000"`
	IsActive     *bool  `json:"is_active"`
}

func (r *LicenseRequest) Normalize() {
	r.LicenseEmail = strings.ToLower(strings.TrimSpace(r.LicenseEmail))
	r.HostID = strings.TrimSpace(r.HostID)
}

// ActiveQuery is ?start_date=RFC3339&duration=seconds.
type ActiveQuery struct {
	StartDate time.Time  `query:"start_date" validate:"required"`
	Duration  int        `query:"duration" validate:"required,min=60"`
	MeetingID *uuid.UUID `query:"meeting_id"`
}
