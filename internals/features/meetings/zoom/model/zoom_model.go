package model

import (
	"github.com/google/uuid"

	helper "academykit_backend/internals/helpers"
)

// ZoomSettingModel is a single-row table.
type ZoomSettingModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WebhookSecret      string    `gorm:"type:text;not null;default:''" json:"-"`
	OAuthAccountID     string    `gorm:"column:oauth_account_id;type:text;not null;default:''" json:"-"`
	OAuthClientID      string    `gorm:"column:oauth_client_id;type:text;not null;default:''" json:"-"`
	OAuthClientSecret  string    `gorm:"column:oauth_client_secret;type:text;not null;default:''" json:"-"`
	SDKKey             string    `gorm:"column:sdk_key;type:text;not null;default:''" json:"-"`
	SDKSecret          string    `gorm:"column:sdk_secret;type:text;not null;default:''" json:"-"`
	IsRecordingEnabled bool      `gorm:"not null;default:false" json:"is_recording_enabled"`

	helper.Audit `gorm:"embedded"`
}

func (ZoomSettingModel) TableName() string { return "zoom_settings" }

type ZoomLicenseModel struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	LicenseEmail string    `gorm:"size:255;not null;uniqueIndex:uq_zoom_licenses_email_lower,expression:lower(license_email)" json:"license_email"`
	HostID       string    `gorm:"size:100;not null" json:"host_id"`
	Capacity     int       `gorm:"not null;default:100" json:"capacity"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`

	helper.Audit `gorm:"embedded"`
}

func (ZoomLicenseModel) TableName() string { return "zoom_licenses" }
