package model

import (
	"github.com/google/uuid"

	helper "academykit_backend/internals/helpers"
)

type GroupModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name     string    `gorm:"size:150;not null" json:"name"`
	Slug     string    `gorm:"size:250;not null;uniqueIndex" json:"slug"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	Members []GroupMemberModel `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`

	helper.Audit `gorm:"embedded"`
}

func (GroupModel) TableName() string { return "groups" }

type GroupMemberModel struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	GroupID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_group_members_pair" json:"group_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_group_members_pair;index" json:"user_id"`
	IsActive bool      `gorm:"not null;default:true" json:"is_active"`

	helper.Audit `gorm:"embedded"`
}

func (GroupMemberModel) TableName() string { return "group_members" }
