package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	helper "academykit_backend/internals/helpers"
)

// UserModel is the users table. Email is unique case-insensitively (lower(email) index).
type UserModel struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FirstName    string         `gorm:"size:100;not null"                             json:"first_name"`
	MiddleName   *string        `gorm:"size:100"                                      json:"middle_name,omitempty"`
	LastName     string         `gorm:"size:100;not null"                             json:"last_name"`
	Email        string         `gorm:"size:255;not null;uniqueIndex:uq_users_email_lower,expression:lower(email)" json:"email"`
	MobileNumber *string        `gorm:"size:30"                                       json:"mobile_number,omitempty"`
	Role         string         `gorm:"type:varchar(20);not null;default:'trainee';index" json:"role"`
	Status       string         `gorm:"type:varchar(20);not null;default:'Pending';index"  json:"status"`
	DepartmentID *uuid.UUID     `gorm:"type:uuid;index"                               json:"department_id,omitempty"`
	Profession   *string        `gorm:"size:150"                                      json:"profession,omitempty"`
	Address      *string        `gorm:"size:255"                                      json:"address,omitempty"`
	Bio          *string        `gorm:"type:text"                                     json:"bio,omitempty"`
	ImageURL     *string        `gorm:"type:text"                                     json:"image_url,omitempty"`
	PublicURLs   pq.StringArray `gorm:"type:text[]"                                   json:"public_urls"`
	PasswordHash string         `gorm:"column:password_hash;not null"                 json:"-"`

	PasswordResetToken       *string    `gorm:"column:password_reset_token"        json:"-"`
	PasswordResetTokenExpiry *time.Time `gorm:"column:password_reset_token_expiry" json:"-"`
	LastLoginAt              *time.Time `gorm:"column:last_login_at"               json:"last_login_at,omitempty"`

	helper.Audit `gorm:"embedded"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (UserModel) TableName() string { return "users" }

func (u UserModel) FullName() string {
	parts := []string{u.FirstName}
	if u.MiddleName != nil && *u.MiddleName != "" {
		parts = append(parts, *u.MiddleName)
	}
	parts = append(parts, u.LastName)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
