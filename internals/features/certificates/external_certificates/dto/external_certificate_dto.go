package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/certificates/external_certificates/model"
	helper "academykit_backend/internals/helpers"
)

type ExternalCertificateRequest struct {
	Name         string     `json:"name" validate:"required,max=250"`
	StartDate    time.Time  `json:"start_date" validate:"required"`
	EndDate      *time.Time `json:"end_date"`
	ImageURL     *string    `json:"image_url" validate:"omitempty,url"`
	Location     *string    `json:"location" validate:"omitempty,max=250"`
	Institute    string     `json:"institute" validate:"required,max=250"`
	Duration     int        `json:"duration" validate:"gte=0"`
	OptionalCost float64    `json:"optional_cost" validate:"gte=0"`
}

func (r *ExternalCertificateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Institute = strings.TrimSpace(r.Institute)
}

func (r ExternalCertificateRequest) Validate() error {
	if r.EndDate != nil && r.EndDate.Before(r.StartDate) {
		return helper.ErrFieldValidation("end_date", "end_date must not be before start_date")
	}
	return nil
}

func (r ExternalCertificateRequest) Apply(m *model.ExternalCertificateModel) {
	m.Name = r.Name
	m.StartDate = r.StartDate
	m.EndDate = r.EndDate
	m.ImageURL = r.ImageURL
	m.Location = r.Location
	m.Institute = r.Institute
	m.Duration = r.Duration
	m.OptionalCost = r.OptionalCost
}

type VerifyRequest struct {
	Status string `json:"status" validate:"required,oneof=Approved Rejected"`
}

type ListQuery struct {
	Status string     `query:"status"`
	UserID *uuid.UUID `query:"user_id"`
}

// Editable reports whether the owner may still change a certificate.
func Editable(status string) bool {
	return status == constants.StatusDraft || status == constants.StatusRejected
}

type ExternalCertificateResponse struct {
	model.ExternalCertificateModel
	UserName  string `json:"user_name,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
}
