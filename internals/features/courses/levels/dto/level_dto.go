package dto

import "strings"

type LevelRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func (r *LevelRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }
