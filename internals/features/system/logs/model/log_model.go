package model

import (
	"time"

	"github.com/google/uuid"
)

type LogModel struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Level     string    `gorm:"type:varchar(10);not null;index" json:"level"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Logger    string    `gorm:"size:100;not null;default:''" json:"logger"`
	Exception *string   `gorm:"type:text" json:"exception,omitempty"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}

func (LogModel) TableName() string { return "logs" }
