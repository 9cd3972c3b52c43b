package dto

import (
	"strings"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/notifications/mail/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/mailer"
)

type MailNotificationRequest struct {
	Name     string `json:"name" validate:"required,max=250"`
	Subject  string `json:"subject" validate:"required,max=500"`
	Message  string `json:"message" validate:"required"`
	MailType string `json:"mail_type" validate:"required"`
	IsActive *bool  `json:"is_active"`
}

func (r *MailNotificationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Subject = strings.TrimSpace(r.Subject)
	r.MailType = strings.TrimSpace(r.MailType)
}

// Validate also renders the template against sample data so broken markup is caught on save.
func (r MailNotificationRequest) Validate() error {
	if !constants.Contains(constants.MailTypes, r.MailType) {
		return helper.ErrFieldValidation("mail_type", "unknown mail type")
	}
	if _, _, err := mailer.RenderStrings(r.Subject, r.Message, mailer.TemplateData{App: "App", Data: SampleData(r.MailType)}); err != nil {
		return helper.ErrFieldValidation("message", err.Error())
	}
	return nil
}

func (r MailNotificationRequest) Apply(m *model.MailNotificationModel) {
	m.Name, m.Subject, m.Message, m.MailType = r.Name, r.Subject, r.Message, r.MailType
	if r.IsActive != nil {
		m.IsActive = *r.IsActive
	}
}

type ListQuery struct {
	MailType string `query:"mail_type"`
	IsActive *bool  `query:"is_active"`
}

type Preview struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text"`
}

// SampleData fills the fields each built-in template reads.
func SampleData(mailType string) map[string]any {
	data := map[string]any{"Name": "Jane Doe"}
	switch mailType {
	case constants.MailUserCreate:
		data["Email"], data["Password"] = "jane@example.com", "Temp#1234"
	case constants.MailForgotPassword:
		data["Token"], data["ExpiresInMinutes"] = "123456", 5
	case constants.MailCertificateIssued:
		data["CourseName"], data["CertificateURL"] = "Workplace Safety", "https://example.com/certificate/sample"
	case constants.MailCourseEnrollment:
		data["CourseName"], data["CourseSlug"] = "Workplace Safety", "workplace-safety"
	case constants.MailCourseReview:
		data["CourseName"], data["RequestedBy"], data["Message"] = "Workplace Safety", "John Trainer", "Ready for review"
	case constants.MailCourseStatusChange:
		data["CourseName"], data["Status"], data["Message"] = "Workplace Safety", constants.StatusPublished, ""
	case constants.MailGroupMemberAdded:
		data["GroupName"] = "Operations"
	}
	return data
}
