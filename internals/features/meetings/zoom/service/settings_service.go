package service

import (
	"context"

	"gorm.io/gorm"

	dto "academykit_backend/internals/features/meetings/zoom/dto"
	model "academykit_backend/internals/features/meetings/zoom/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/zoom"
)

// LoadSettings returns the single settings row, or a zero row when none was saved yet.
func LoadSettings(ctx context.Context, db *gorm.DB) (*model.ZoomSettingModel, error) {
	var m model.ZoomSettingModel
	if err := db.WithContext(ctx).Order("created_on ASC").Limit(1).Find(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// CredentialsFrom feeds the Zoom client with the OAuth app stored in zoom_settings.
func CredentialsFrom(db *gorm.DB) zoom.CredentialsFunc {
	return func(ctx context.Context) (zoom.Credentials, error) {
		m, err := LoadSettings(ctx, db)
		if err != nil {
			return zoom.Credentials{}, err
		}
		return zoom.Credentials{AccountID: m.OAuthAccountID, ClientID: m.OAuthClientID, ClientSecret: m.OAuthClientSecret}, nil
	}
}

type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService { return &SettingsService{DB: db} }

func (s *SettingsService) Get(ctx context.Context) (dto.SettingsResponse, error) {
	m, err := LoadSettings(ctx, s.DB)
	if err != nil {
		return dto.SettingsResponse{}, err
	}
	return dto.SettingsFromModel(m), nil
}

func (s *SettingsService) Put(ctx context.Context, actor helper.CurrentUser, req dto.SettingsRequest) (dto.SettingsResponse, error) {
	m, err := LoadSettings(ctx, s.DB)
	if err != nil {
		return dto.SettingsResponse{}, err
	}
	req.ApplyTo(m)
	if m.CreatedBy == nil {
		m.Audit = helper.NewAudit(actor.ID)
	} else {
		m.Touch(actor.ID)
	}
	if err := s.DB.WithContext(ctx).Save(m).Error; err != nil {
		return dto.SettingsResponse{}, err
	}
	return dto.SettingsFromModel(m), nil
}
