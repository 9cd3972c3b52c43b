package model

import (
	"github.com/google/uuid"

	helper "academykit_backend/internals/helpers"
)

type TagModel struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"size:100;not null;uniqueIndex:uq_tags_name_lower,expression:lower(name)" json:"name"`
	Slug string    `gorm:"size:250;not null;uniqueIndex" json:"slug"`

	helper.Audit `gorm:"embedded"`
}

func (TagModel) TableName() string { return "tags" }
