package model

import (
	"github.com/google/uuid"

	helper "academykit_backend/internals/helpers"
)

type LevelModel struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug string    `gorm:"size:250;not null;uniqueIndex" json:"slug"`

	helper.Audit `gorm:"embedded"`
}

func (LevelModel) TableName() string { return "levels" }
