package dto

import "strings"

type TagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

func (r *TagRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

type TagResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	CourseCount int64  `json:"course_count"`
}
