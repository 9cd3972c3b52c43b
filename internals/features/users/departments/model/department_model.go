package model

import (
	"github.com/google/uuid"

	helper "academykit_backend/internals/helpers"
)

type DepartmentModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name     string    `gorm:"size:150;not null;uniqueIndex:uq_departments_name_lower,expression:lower(name)" json:"name"`
	Slug     string    `gorm:"size:250;not null;uniqueIndex" json:"slug"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	helper.Audit `gorm:"embedded"`
}

func (DepartmentModel) TableName() string { return "departments" }
