package model

import (
	"github.com/google/uuid"

	helper "academykit_backend/internals/helpers"
)

type SectionModel struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Name        string    `gorm:"size:250;not null" json:"name"`
	Slug        string    `gorm:"size:250;not null;uniqueIndex" json:"slug"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Order       int       `gorm:"column:order;not null;default:0" json:"order"`
	Duration    int       `gorm:"not null;default:0" json:"duration"`
	IsDeleted   bool      `gorm:"not null;default:false;index" json:"-"`

	helper.Audit `gorm:"embedded"`
}

func (SectionModel) TableName() string { return "sections" }
