package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "academykit_backend/internals/helpers"
)

type ExternalCertificateModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string     `gorm:"size:250;not null" json:"name"`
	StartDate    time.Time  `gorm:"not null" json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	ImageURL     *string    `gorm:"type:text" json:"image_url,omitempty"`
	Location     *string    `gorm:"size:250" json:"location,omitempty"`
	Institute    string     `gorm:"size:250;not null" json:"institute"`
	Duration     int        `gorm:"not null;default:0" json:"duration"`
	Status       string     `gorm:"type:varchar(20);not null;default:'Draft';index" json:"status"`
	OptionalCost float64    `gorm:"not null;default:0" json:"optional_cost"`
	VerifiedBy   *uuid.UUID `gorm:"type:uuid" json:"verified_by,omitempty"`

	helper.Audit `gorm:"embedded"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (ExternalCertificateModel) TableName() string { return "external_certificates" }
