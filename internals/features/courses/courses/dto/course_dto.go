package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/courses/courses/model"
	helper "academykit_backend/internals/helpers"
)

type CreateCourseRequest struct {
	Name               string      `json:"name" validate:"required,min=3,max=250"`
	Description        *string     `json:"description"`
	ThumbnailURL       *string     `json:"thumbnail_url" validate:"omitempty,url"`
	Language           string      `json:"language" validate:"omitempty,max=20"`
	LevelID            *uuid.UUID  `json:"level_id"`
	GroupID            *uuid.UUID  `json:"group_id"`
	StartDate          *time.Time  `json:"start_date"`
	EndDate            *time.Time  `json:"end_date"`
	IsUnlimitedEndDate *bool       `json:"is_unlimited_end_date"`
	TagIDs             []uuid.UUID `json:"tag_ids" validate:"omitempty,max=20"`
}

func (r *CreateCourseRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	if r.Language == "" {
		r.Language = "en"
	}
}

// Validate checks the date window.
func (r CreateCourseRequest) Validate() error {
	unlimited := r.IsUnlimitedEndDate == nil || *r.IsUnlimitedEndDate
	if !unlimited && r.EndDate == nil {
		return helper.ErrFieldValidation("end_date", "end_date is required unless the end date is unlimited")
	}
	if r.StartDate != nil && r.EndDate != nil && !r.EndDate.After(*r.StartDate) {
		return helper.ErrFieldValidation("end_date", "end_date must be after start_date")
	}
	return nil
}

func (r CreateCourseRequest) ToModel(by uuid.UUID) *model.CourseModel {
	m := &model.CourseModel{
		Name:               r.Name,
		Description:        r.Description,
		ThumbnailURL:       r.ThumbnailURL,
		Status:             constants.StatusDraft,
		Language:           r.Language,
		LevelID:            r.LevelID,
		GroupID:            r.GroupID,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		IsUnlimitedEndDate: r.IsUnlimitedEndDate == nil || *r.IsUnlimitedEndDate,
		Audit:              helper.NewAudit(by),
	}
	if m.IsUnlimitedEndDate {
		m.EndDate = nil
	}
	return m
}

type UpdateCourseRequest struct {
	Name               helper.PatchField[string]      `json:"name"`
	Description        helper.PatchField[string]      `json:"description"`
	ThumbnailURL       helper.PatchField[string]      `json:"thumbnail_url"`
	Language           helper.PatchField[string]      `json:"language"`
	LevelID            helper.PatchField[uuid.UUID]   `json:"level_id"`
	GroupID            helper.PatchField[uuid.UUID]   `json:"group_id"`
	StartDate          helper.PatchField[time.Time]   `json:"start_date"`
	EndDate            helper.PatchField[time.Time]   `json:"end_date"`
	IsUnlimitedEndDate helper.PatchField[bool]        `json:"is_unlimited_end_date"`
	TagIDs             helper.PatchField[[]uuid.UUID] `json:"tag_ids"`
}

func (r UpdateCourseRequest) Validate() error {
	fields := map[string][]string{}
	if r.Name.Set() {
		n := len(strings.TrimSpace(*r.Name.Value))
		if n < 3 || n > 250 {
			fields["name"] = append(fields["name"], "name must be between 3 and 250 characters")
		}
	}
	if r.Name.Present && r.Name.Value == nil {
		fields["name"] = append(fields["name"], "name cannot be null")
	}
	if r.TagIDs.Set() && len(*r.TagIDs.Value) > 20 {
		fields["tag_ids"] = append(fields["tag_ids"], "at most 20 tags are allowed")
	}
	if len(fields) > 0 {
		return helper.ErrValidation(fields)
	}
	return nil
}

// ApplyTo mutates the course and reports whether the dates still make sense.
func (r UpdateCourseRequest) ApplyTo(m *model.CourseModel) error {
	if r.Name.Set() {
		m.Name = strings.TrimSpace(*r.Name.Value)
	}
	r.Description.ApplyNullable(&m.Description)
	r.ThumbnailURL.ApplyNullable(&m.ThumbnailURL)
	r.Language.Apply(&m.Language)
	r.LevelID.ApplyNullable(&m.LevelID)
	r.GroupID.ApplyNullable(&m.GroupID)
	r.StartDate.ApplyNullable(&m.StartDate)
	r.EndDate.ApplyNullable(&m.EndDate)
	r.IsUnlimitedEndDate.Apply(&m.IsUnlimitedEndDate)
	if m.IsUnlimitedEndDate {
		m.EndDate = nil
	} else if m.EndDate == nil {
		return helper.ErrFieldValidation("end_date", "end_date is required unless the end date is unlimited")
	}
	if m.StartDate != nil && m.EndDate != nil && !m.EndDate.After(*m.StartDate) {
		return helper.ErrFieldValidation("end_date", "end_date must be after start_date")
	}
	return nil
}

type ChangeStatusRequest struct {
	Status  string  `json:"status" validate:"required,oneof=Review Published Rejected"`
	Message *string `json:"message" validate:"omitempty,max=2000"`
}

func (r ChangeStatusRequest) Validate() error {
	if r.Status == constants.StatusRejected && strings.TrimSpace(helper.Deref(r.Message)) == "" {
		return helper.ErrFieldValidation("message", "a message is required when rejecting a course")
	}
	return nil
}

type AddTeacherRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *AddTeacherRequest) Normalize() { r.Email = strings.ToLower(strings.TrimSpace(r.Email)) }

// ListQuery holds the course list filters.
type ListQuery struct {
	Status           string     `query:"status"`
	LevelID          *uuid.UUID `query:"level_id"`
	GroupID          *uuid.UUID `query:"group_id"`
	EnrollmentStatus string     `query:"enrollment_status"`
}

type TagLite struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type TeacherResponse struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
}

type EnrollmentLite struct {
	Status         string     `json:"status"`
	Percentage     int        `json:"percentage"`
	EnrollmentDate time.Time  `json:"enrollment_date"`
	CurrentLesson  *uuid.UUID `json:"current_lesson_id,omitempty"`
	CertificateURL *string    `json:"certificate_url,omitempty"`
}

type CourseResponse struct {
	ID                 uuid.UUID         `json:"id"`
	Name               string            `json:"name"`
	Slug               string            `json:"slug"`
	Description        *string           `json:"description,omitempty"`
	ThumbnailURL       *string           `json:"thumbnail_url,omitempty"`
	Status             string            `json:"status"`
	IsUpdate           bool              `json:"is_update"`
	Language           string            `json:"language"`
	Duration           int               `json:"duration"`
	LevelID            *uuid.UUID        `json:"level_id,omitempty"`
	LevelName          string            `json:"level_name,omitempty"`
	GroupID            *uuid.UUID        `json:"group_id,omitempty"`
	GroupName          string            `json:"group_name,omitempty"`
	StartDate          *time.Time        `json:"start_date,omitempty"`
	EndDate            *time.Time        `json:"end_date,omitempty"`
	IsUnlimitedEndDate bool              `json:"is_unlimited_end_date"`
	Tags               []TagLite         `json:"tags"`
	Teachers           []TeacherResponse `json:"teachers,omitempty"`
	Enrollment         *EnrollmentLite   `json:"enrollment,omitempty"`
	IsTeacher          bool              `json:"is_teacher"`
	CreatedOn          time.Time         `json:"created_on"`
	UpdatedOn          time.Time         `json:"updated_on"`
}

func FromModel(m *model.CourseModel) CourseResponse {
	return CourseResponse{
		ID:                 m.ID,
		Name:               m.Name,
		Slug:               m.Slug,
		Description:        m.Description,
		ThumbnailURL:       m.ThumbnailURL,
		Status:             m.Status,
		IsUpdate:           m.IsUpdate,
		Language:           m.Language,
		Duration:           m.Duration,
		LevelID:            m.LevelID,
		GroupID:            m.GroupID,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		IsUnlimitedEndDate: m.IsUnlimitedEndDate,
		Tags:               []TagLite{},
		CreatedOn:          m.CreatedOn,
		UpdatedOn:          m.UpdatedOn,
	}
}

func EnrollmentFromModel(e *model.CourseEnrollmentModel) *EnrollmentLite {
	if e == nil {
		return nil
	}
	return &EnrollmentLite{
		Status:         e.Status,
		Percentage:     e.Percentage,
		EnrollmentDate: e.EnrollmentDate,
		CurrentLesson:  e.CurrentLessonID,
		CertificateURL: e.CertificateURL,
	}
}

type LessonLite struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Type          string     `json:"type"`
	Duration      int        `json:"duration"`
	Order         int        `json:"order"`
	IsMandatory   bool       `json:"is_mandatory"`
	QuestionSetID *uuid.UUID `json:"question_set_id,omitempty"`
	MeetingID     *uuid.UUID `json:"meeting_id,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	IsCompleted   bool       `json:"is_completed"`
	IsPassed      bool       `json:"is_passed"`
}

type SectionLite struct {
	ID       uuid.UUID    `json:"id"`
	Name     string       `json:"name"`
	Slug     string       `json:"slug"`
	Order    int          `json:"order"`
	Duration int          `json:"duration"`
	Lessons  []LessonLite `json:"lessons"`
}

type CourseDetail struct {
	CourseResponse
	Sections []SectionLite `json:"sections"`
}

type StatisticsResponse struct {
	TotalEnrollments     int64   `json:"total_enrollments"`
	CompletedEnrollments int64   `json:"completed_enrollments"`
	TotalLessons         int64   `json:"total_lessons"`
	TotalTeachers        int64   `json:"total_teachers"`
	AverageProgress      float64 `json:"average_progress"`
}

type EnrollmentRow struct {
	ID                    uuid.UUID  `json:"id"`
	UserID                uuid.UUID  `json:"user_id"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email"`
	Status                string     `json:"status"`
	Percentage            int        `json:"percentage"`
	EnrollmentDate        time.Time  `json:"enrollment_date"`
	CompletedOn           *time.Time `json:"completed_on,omitempty"`
	CertificateIssuedDate *time.Time `json:"certificate_issued_date,omitempty"`
}
