package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
)

type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	FirstName    string     `json:"first_name"`
	MiddleName   *string    `json:"middle_name,omitempty"`
	LastName     string     `json:"last_name"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	MobileNumber *string    `json:"mobile_number,omitempty"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	Profession   *string    `json:"profession,omitempty"`
	Address      *string    `json:"address,omitempty"`
	Bio          *string    `json:"bio,omitempty"`
	ImageURL     *string    `json:"image_url,omitempty"`
	PublicURLs   []string   `json:"public_urls"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedOn    time.Time  `json:"created_on"`
	UpdatedOn    time.Time  `json:"updated_on"`
}

func FromModel(m *model.UserModel) UserResponse {
	urls := []string(m.PublicURLs)
	if urls == nil {
		urls = []string{}
	}
	return UserResponse{
		ID:           m.ID,
		FirstName:    m.FirstName,
		MiddleName:   m.MiddleName,
		LastName:     m.LastName,
		FullName:     m.FullName(),
		Email:        m.Email,
		MobileNumber: m.MobileNumber,
		Role:         m.Role,
		Status:       m.Status,
		DepartmentID: m.DepartmentID,
		Profession:   m.Profession,
		Address:      m.Address,
		Bio:          m.Bio,
		ImageURL:     m.ImageURL,
		PublicURLs:   urls,
		LastLoginAt:  m.LastLoginAt,
		CreatedOn:    m.CreatedOn,
		UpdatedOn:    m.UpdatedOn,
	}
}

func FromModels(list []model.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}

type CreateUserRequest struct {
	FirstName    string     `json:"first_name" validate:"required,max=100"`
	MiddleName   *string    `json:"middle_name" validate:"omitempty,max=100"`
	LastName     string     `json:"last_name" validate:"required,max=100"`
	Email        string     `json:"email" validate:"required,email,max=255"`
	MobileNumber *string    `json:"mobile_number" validate:"omitempty,max=30"`
	Role         string     `json:"role" validate:"required,oneof=superadmin admin trainer trainee"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Profession   *string    `json:"profession" validate:"omitempty,max=150"`
	Address      *string    `json:"address" validate:"omitempty,max=255"`
	Bio          *string    `json:"bio"`
	ImageURL     *string    `json:"image_url" validate:"omitempty,url"`
	PublicURLs   []string   `json:"public_urls" validate:"omitempty,dive,url"`
}

func (r *CreateUserRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
}

func (r CreateUserRequest) ToModel(passwordHash string) *model.UserModel {
	return &model.UserModel{
		FirstName:    r.FirstName,
		MiddleName:   r.MiddleName,
		LastName:     r.LastName,
		Email:        r.Email,
		MobileNumber: r.MobileNumber,
		Role:         r.Role,
		Status:       constants.UserActive,
		DepartmentID: r.DepartmentID,
		Profession:   r.Profession,
		Address:      r.Address,
		Bio:          r.Bio,
		ImageURL:     r.ImageURL,
		PublicURLs:   r.PublicURLs,
		PasswordHash: passwordHash,
	}
}

// UpdateUserRequest is a PATCH-style body: absent fields are left alone.
type UpdateUserRequest struct {
	FirstName    helper.PatchField[string]    `json:"first_name"`
	MiddleName   helper.PatchField[string]    `json:"middle_name"`
	LastName     helper.PatchField[string]    `json:"last_name"`
	Email        helper.PatchField[string]    `json:"email"`
	MobileNumber helper.PatchField[string]    `json:"mobile_number"`
	Role         helper.PatchField[string]    `json:"role"`
	Status       helper.PatchField[string]    `json:"status"`
	DepartmentID helper.PatchField[uuid.UUID] `json:"department_id"`
	Profession   helper.PatchField[string]    `json:"profession"`
	Address      helper.PatchField[string]    `json:"address"`
	Bio          helper.PatchField[string]    `json:"bio"`
	ImageURL     helper.PatchField[string]    `json:"image_url"`
	PublicURLs   helper.PatchField[[]string]  `json:"public_urls"`
}

// Validate checks the values that were sent.
func (r UpdateUserRequest) Validate() error {
	fields := map[string][]string{}
	if r.FirstName.Present && (r.FirstName.Value == nil || strings.TrimSpace(*r.FirstName.Value) == "") {
		fields["first_name"] = append(fields["first_name"], "first_name cannot be empty")
	}
	if r.LastName.Present && (r.LastName.Value == nil || strings.TrimSpace(*r.LastName.Value) == "") {
		fields["last_name"] = append(fields["last_name"], "last_name cannot be empty")
	}
	if r.Email.Set() {
		if err := helper.Validate.Var(*r.Email.Value, "email"); err != nil {
			fields["email"] = append(fields["email"], "email must be a valid email address")
		}
	}
	if r.Role.Set() {
		if err := helper.Validate.Var(*r.Role.Value, "oneof=superadmin admin trainer trainee"); err != nil {
			fields["role"] = append(fields["role"], "role is invalid")
		}
	}
	if r.Status.Set() {
		if err := helper.Validate.Var(*r.Status.Value, "oneof=Active InActive Pending"); err != nil {
			fields["status"] = append(fields["status"], "status is invalid")
		}
	}
	if len(fields) > 0 {
		return helper.ErrValidation(fields)
	}
	return nil
}

// TouchesPrivileged reports whether role, status or email are being changed.
func (r UpdateUserRequest) TouchesPrivileged() bool {
	return r.Role.Set() || r.Status.Set() || r.Email.Set()
}

func (r UpdateUserRequest) ApplyTo(m *model.UserModel) {
	r.FirstName.Apply(&m.FirstName)
	r.MiddleName.ApplyNullable(&m.MiddleName)
	r.LastName.Apply(&m.LastName)
	if r.Email.Set() {
		m.Email = strings.ToLower(strings.TrimSpace(*r.Email.Value))
	}
	r.MobileNumber.ApplyNullable(&m.MobileNumber)
	r.Role.Apply(&m.Role)
	r.Status.Apply(&m.Status)
	r.DepartmentID.ApplyNullable(&m.DepartmentID)
	r.Profession.ApplyNullable(&m.Profession)
	r.Address.ApplyNullable(&m.Address)
	r.Bio.ApplyNullable(&m.Bio)
	r.ImageURL.ApplyNullable(&m.ImageURL)
	if r.PublicURLs.Present {
		m.PublicURLs = nil
		if r.PublicURLs.Value != nil {
			m.PublicURLs = *r.PublicURLs.Value
		}
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Active InActive Pending"`
}

type ListQuery struct {
	Role         string `query:"role" validate:"omitempty,oneof=superadmin admin trainer trainee"`
	Status       string `query:"status" validate:"omitempty,oneof=Active InActive Pending"`
	DepartmentID string `query:"department_id" validate:"omitempty,uuid"`
}

// BulkImportError is one rejected CSV row (1-based, header excluded).
type BulkImportError struct {
	Row    int      `json:"row"`
	Email  string   `json:"email,omitempty"`
	Errors []string `json:"errors"`
}
