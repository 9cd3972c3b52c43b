package grading

import "github.com/google/uuid"

// Criterion is one eligibility row. Nil fields are not checked.
type Criterion struct {
	Role         *string
	DepartmentID *uuid.UUID
	GroupID      *uuid.UUID
	TrainingID   *uuid.UUID
}

// Profile is what is known about the user being checked.
type Profile struct {
	Role               string
	DepartmentID       *uuid.UUID
	GroupIDs           map[uuid.UUID]bool
	CompletedTrainings map[uuid.UUID]bool
}

// Eligible is true with no criteria, otherwise when any row fully matches.
func Eligible(criteria []Criterion, p Profile) bool {
	if len(criteria) == 0 {
		return true
	}
	for _, c := range criteria {
		if c.matches(p) {
			return true
		}
	}
	return false
}

func (c Criterion) matches(p Profile) bool {
	if c.Role != nil && *c.Role != p.Role {
		return false
	}
	if c.DepartmentID != nil && (p.DepartmentID == nil || *p.DepartmentID != *c.DepartmentID) {
		return false
	}
	if c.GroupID != nil && !p.GroupIDs[*c.GroupID] {
		return false
	}
	if c.TrainingID != nil && !p.CompletedTrainings[*c.TrainingID] {
		return false
	}
	return true
}
