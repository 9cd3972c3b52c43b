package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	model "academykit_backend/internals/features/certificates/course_certificates/model"
	helper "academykit_backend/internals/helpers"
)

type CertificateRequest struct {
	Title          string     `json:"title" validate:"required,max=250"`
	EventStartDate *time.Time `json:"event_start_date"`
	EventEndDate   *time.Time `json:"event_end_date"`
	SampleURL      *string    `json:"sample_url" validate:"omitempty,url"`
}

func (r *CertificateRequest) Normalize() { r.Title = strings.TrimSpace(r.Title) }

func (r CertificateRequest) Validate() error {
	if r.EventStartDate != nil && r.EventEndDate != nil && r.EventEndDate.Before(*r.EventStartDate) {
		return helper.ErrFieldValidation("event_end_date", "event_end_date must not be before event_start_date")
	}
	return nil
}

func (r CertificateRequest) Apply(m *model.CourseCertificateModel) {
	m.Title, m.EventStartDate, m.EventEndDate, m.SampleURL = r.Title, r.EventStartDate, r.EventEndDate, r.SampleURL
}

type IssueRequest struct {
	UserIDs  []uuid.UUID `json:"user_ids"`
	IssueAll bool        `json:"issue_all"`
}

func (r IssueRequest) Validate() error {
	if !r.IssueAll && len(r.UserIDs) == 0 {
		return helper.ErrFieldValidation("user_ids", "pick trainees or set issue_all")
	}
	return nil
}

type IssueResponse struct {
	Issued  int         `json:"issued"`
	Skipped []uuid.UUID `json:"skipped"`
}

// CertificateURL is the public page a certificate resolves to.
func CertificateURL(frontend string, enrollmentID uuid.UUID) string {
	return strings.TrimSuffix(frontend, "/") + "/certificate/" + enrollmentID.String()
}

// Verification is what anyone holding the link may see.
type Verification struct {
	EnrollmentID   uuid.UUID  `json:"enrollment_id"`
	HolderName     string     `json:"holder_name"`
	CourseName     string     `json:"course_name"`
	Title          string     `json:"title"`
	IssuedDate     time.Time  `json:"issued_date"`
	EventStartDate *time.Time `json:"event_start_date,omitempty"`
	EventEndDate   *time.Time `json:"event_end_date,omitempty"`
	CertificateURL string     `json:"certificate_url"`
}

type MyCertificate struct {
	EnrollmentID   uuid.UUID `json:"enrollment_id"`
	CourseID       uuid.UUID `json:"course_id"`
	CourseName     string    `json:"course_name"`
	IssuedDate     time.Time `json:"issued_date"`
	CertificateURL string    `json:"certificate_url"`
}
