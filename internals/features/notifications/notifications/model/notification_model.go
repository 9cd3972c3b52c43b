package model

import (
	"github.com/google/uuid"

	helper "academykit_backend/internals/helpers"
)

type NotificationModel struct {
	ID      uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title   string    `gorm:"size:250;not null" json:"title"`
	Message string    `gorm:"type:text;not null" json:"message"`
	IsRead  bool      `gorm:"not null;default:false;index" json:"is_read"`

	helper.Audit `gorm:"embedded"`
}

func (NotificationModel) TableName() string { return "notifications" }
