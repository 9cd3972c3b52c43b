package service

import (
	"context"

	"gorm.io/gorm"

	model "academykit_backend/internals/features/notifications/mail/model"
)

// TemplateStore serves the active stored template of a mail type to the mail renderer.
type TemplateStore struct {
	DB *gorm.DB
}

func (s TemplateStore) ActiveTemplate(ctx context.Context, mailType string) (string, string, bool, error) {
	var m model.MailNotificationModel
	res := s.DB.WithContext(ctx).
		Where("mail_type = ? AND is_active", mailType).
		Order("updated_on DESC NULLS LAST, created_on DESC").
		Limit(1).Find(&m)
	if res.Error != nil || res.RowsAffected == 0 {
		return "", "", false, res.Error
	}
	return m.Subject, m.Message, true, nil
}
