package dto

import (
	"strings"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"

	model "academykit_backend/internals/features/system/settings/model"
	helper "academykit_backend/internals/helpers"
)

type SettingRequest struct {
	CompanyName          string         `json:"company_name" validate:"required,max=250"`
	CompanyAddress       *string        `json:"company_address"`
	CompanyContactNumber *string        `json:"company_contact_number" validate:"omitempty,max=50"`
	EmailSignature       *string        `json:"email_signature"`
	LogoURL              *string        `json:"logo_url" validate:"omitempty,url"`
	CustomConfiguration  map[string]any `json:"custom_configuration"`
}

func (r *SettingRequest) Normalize() { r.CompanyName = strings.TrimSpace(r.CompanyName) }

func (r SettingRequest) Apply(m *model.GeneralSettingModel) error {
	m.CompanyName = r.CompanyName
	m.CompanyAddress = r.CompanyAddress
	m.CompanyContactNumber = r.CompanyContactNumber
	m.EmailSignature = r.EmailSignature
	m.LogoURL = r.LogoURL
	if r.CustomConfiguration == nil {
		return nil
	}
	raw, err := sonic.Marshal(r.CustomConfiguration)
	if err != nil {
		return helper.ErrFieldValidation("custom_configuration", "custom_configuration must be a JSON object")
	}
	m.CustomConfiguration = datatypes.JSON(raw)
	return nil
}
