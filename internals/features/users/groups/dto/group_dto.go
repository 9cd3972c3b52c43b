package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "academykit_backend/internals/features/users/groups/model"
)

type GroupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=150"`
	IsActive *bool  `json:"is_active"`
}

func (r *GroupRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

type GroupResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	IsActive    bool      `json:"is_active"`
	MemberCount int64     `json:"member_count"`
	CourseCount int64     `json:"course_count"`
	CreatedOn   time.Time `json:"created_on"`
}

func FromModel(m *model.GroupModel) GroupResponse {
	return GroupResponse{ID: m.ID, Name: m.Name, Slug: m.Slug, IsActive: m.IsActive, CreatedOn: m.CreatedOn}
}

type AddMembersRequest struct {
	Emails []string `json:"emails" validate:"required,min=1,max=500,dive,required,email"`
}

// Normalize lowercases and de-duplicates the email list.
func (r *AddMembersRequest) Normalize() {
	seen := make(map[string]bool, len(r.Emails))
	out := r.Emails[:0]
	for _, e := range r.Emails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	r.Emails = out
}

// AddMembersResult reports which emails were added and which were skipped.
type AddMembersResult struct {
	Added          []string `json:"added"`
	NotFound       []string `json:"not_found"`
	AlreadyMembers []string `json:"already_members"`
	Inactive       []string `json:"inactive"`
}

type MemberResponse struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
	JoinedOn time.Time `json:"joined_on"`
}
