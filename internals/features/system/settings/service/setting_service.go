package service

import (
	"context"

	"gorm.io/gorm"

	dto "academykit_backend/internals/features/system/settings/dto"
	model "academykit_backend/internals/features/system/settings/model"
	helper "academykit_backend/internals/helpers"
)

type SettingService struct {
	DB      *gorm.DB
	AppName string
}

func NewSettingService(db *gorm.DB, appName string) *SettingService {
	return &SettingService{DB: db, AppName: appName}
}

// Get returns the single settings row, or defaults when the seeder has not run.
func (s *SettingService) Get(ctx context.Context) (*model.GeneralSettingModel, error) {
	var m model.GeneralSettingModel
	res := s.DB.WithContext(ctx).Order("created_on ASC").Limit(1).Find(&m)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return &model.GeneralSettingModel{CompanyName: s.AppName}, nil
	}
	return &m, nil
}

// Update writes the settings row, creating it on first save.
func (s *SettingService) Update(ctx context.Context, actor helper.CurrentUser, req dto.SettingRequest) (*model.GeneralSettingModel, error) {
	if !actor.IsSuperAdmin() {
		return nil, helper.ErrForbidden("only the super admin can change settings")
	}
	m, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(m); err != nil {
		return nil, err
	}
	if m.CreatedBy == nil && m.CreatedOn.IsZero() {
		m.Audit = helper.NewAudit(actor.ID)
	} else {
		m.Touch(actor.ID)
	}
	if err := s.DB.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// Seed inserts the settings row when the table is empty.
func Seed(ctx context.Context, db *gorm.DB, companyName string) error {
	var n int64
	if err := db.WithContext(ctx).Model(&model.GeneralSettingModel{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&model.GeneralSettingModel{CompanyName: companyName}).Error
}
