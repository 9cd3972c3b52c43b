package dto

import (
	"strings"

	"github.com/google/uuid"
)

type SectionRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=250"`
	Description *string `json:"description"`
}

func (r *SectionRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}
