package model

import (
	"github.com/google/uuid"

	helper "academykit_backend/internals/helpers"
)

type MailNotificationModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name     string    `gorm:"size:250;not null" json:"name"`
	Subject  string    `gorm:"size:500;not null" json:"subject"`
	Message  string    `gorm:"type:text;not null" json:"message"`
	MailType string    `gorm:"type:varchar(40);not null;index" json:"mail_type"`
	IsActive bool      `gorm:"not null;default:false" json:"is_active"`

	helper.Audit `gorm:"embedded"`
}

func (MailNotificationModel) TableName() string { return "mail_notifications" }
