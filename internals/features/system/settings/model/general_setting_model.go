package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	helper "academykit_backend/internals/helpers"
)

// GeneralSettingModel is a single-row table created by the seeder.
type GeneralSettingModel struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CompanyName          string         `gorm:"size:250;not null;default:''" json:"company_name"`
	CompanyAddress       *string        `gorm:"type:text" json:"company_address,omitempty"`
	CompanyContactNumber *string        `gorm:"size:50" json:"company_contact_number,omitempty"`
	EmailSignature       *string        `gorm:"type:text" json:"email_signature,omitempty"`
	LogoURL              *string        `gorm:"type:text" json:"logo_url,omitempty"`
	CustomConfiguration  datatypes.JSON `gorm:"type:jsonb" json:"custom_configuration,omitempty"`

	helper.Audit `gorm:"embedded"`
}

func (GeneralSettingModel) TableName() string { return "general_settings" }
