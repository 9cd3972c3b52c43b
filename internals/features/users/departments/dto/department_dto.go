package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "academykit_backend/internals/features/users/departments/model"
)

type DepartmentRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=150"`
	IsActive *bool  `json:"is_active"`
}

func (r *DepartmentRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

type DepartmentResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"is_active"`
	UserCount int64     `json:"user_count"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

func FromModel(m *model.DepartmentModel, userCount int64) DepartmentResponse {
	return DepartmentResponse{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		IsActive:  m.IsActive,
		UserCount: userCount,
		CreatedOn: m.CreatedOn,
		UpdatedOn: m.UpdatedOn,
	}
}
