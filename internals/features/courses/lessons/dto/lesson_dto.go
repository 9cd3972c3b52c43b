package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"academykit_backend/internals/constants"
	model "academykit_backend/internals/features/courses/lessons/model"
	helper "academykit_backend/internals/helpers"
)

// ExamSettings configures the question set behind an Exam lesson.
type ExamSettings struct {
	NegativeMarking  float64    `json:"negative_marking" validate:"gte=0"`
	QuestionMarking  float64    `json:"question_marking" validate:"gte=0"`
	PassingWeightage float64    `json:"passing_weightage" validate:"gte=0,lte=100"`
	AllowedRetake    int        `json:"allowed_retake" validate:"gte=0"`
	Duration         int        `json:"duration" validate:"gte=0"` // minutes
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
}

// LiveSettings books the Zoom meeting behind a LiveClass lesson.
type LiveSettings struct {
	ZoomLicenseID uuid.UUID `json:"zoom_license_id" validate:"required"`
	StartDate     time.Time `json:"start_date" validate:"required"`
	Duration      int       `json:"duration" validate:"required,gt=0"` // seconds
}

type LessonRequest struct {
	SectionIdentity string        `json:"section_identity" validate:"required"`
	Name            string        `json:"name" validate:"required,min=2,max=250"`
	Description     *string       `json:"description"`
	Type            string        `json:"type" validate:"required"`
	VideoURL        *string       `json:"video_url" validate:"omitempty,url"`
	DocumentURL     *string       `json:"document_url" validate:"omitempty,url"`
	ThumbnailURL    *string       `json:"thumbnail_url" validate:"omitempty,url"`
	Duration        int           `json:"duration" validate:"gte=0"` // seconds
	IsMandatory     bool          `json:"is_mandatory"`
	Status          string        `json:"status" validate:"omitempty,oneof=Draft Published"`
	StartDate       *time.Time    `json:"start_date"`
	EndDate         *time.Time    `json:"end_date"`
	Exam            *ExamSettings `json:"exam"`
	Live            *LiveSettings `json:"live"`
}

func (r *LessonRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.SectionIdentity = strings.TrimSpace(r.SectionIdentity)
	if r.Status == "" {
		r.Status = constants.StatusPublished
	}
}

// Validate applies the per-type content rules.
func (r LessonRequest) Validate() error {
	fields := map[string][]string{}
	add := func(k, v string) { fields[k] = append(fields[k], v) }

	switch r.Type {
	case constants.LessonVideo, constants.LessonRecordedVideo:
		if helper.Deref(r.VideoURL) == "" {
			add("video_url", "video_url is required for video lessons")
		}
	case constants.LessonDocument:
		if helper.Deref(r.DocumentURL) == "" {
			add("document_url", "document_url is required for document lessons")
		}
	case constants.LessonExam:
		if r.Exam == nil {
			add("exam", "exam settings are required for exam lessons")
		} else if r.Exam.StartTime != nil && r.Exam.EndTime != nil && !r.Exam.EndTime.After(*r.Exam.StartTime) {
			add("exam.end_time", "end_time must be after start_time")
		}
	case constants.LessonLiveClass:
		if r.Live == nil {
			add("live", "live settings are required for live classes")
		}
	case constants.LessonPhysical:
		if r.StartDate == nil {
			add("start_date", "start_date is required for physical lessons")
		}
	case constants.LessonAssignment, constants.LessonFeedback:
	default:
		add("type", "type must be one of "+strings.Join(constants.LessonTypes, ", "))
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		add("end_date", "end_date must not be before start_date")
	}
	if len(fields) > 0 {
		return helper.ErrValidation(fields)
	}
	if r.Live != nil {
		return helper.ValidateStruct(r.Live)
	}
	if r.Exam != nil {
		return helper.ValidateStruct(r.Exam)
	}
	return nil
}

// Apply copies the content fields; type, section and order are handled by the service.
func (r LessonRequest) Apply(m *model.LessonModel) {
	m.Name = r.Name
	m.Description = r.Description
	m.VideoURL = r.VideoURL
	m.DocumentURL = r.DocumentURL
	m.ThumbnailURL = r.ThumbnailURL
	m.Duration = r.Duration
	m.IsMandatory = r.IsMandatory
	m.Status = r.Status
	m.StartDate = r.StartDate
	m.EndDate = r.EndDate
	if r.Live != nil {
		start := r.Live.StartDate.UTC()
		end := start.Add(time.Duration(r.Live.Duration) * time.Second)
		m.StartDate, m.EndDate, m.Duration = &start, &end, r.Live.Duration
	}
	if r.Exam != nil && r.Exam.Duration > 0 {
		m.Duration = r.Exam.Duration * 60
	}
}

type ReorderRequest struct {
	SectionIdentity string      `json:"section_identity" validate:"required"`
	IDs             []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type WatchRequest struct {
	WatchedPercentage int  `json:"watched_percentage" validate:"gte=0,lte=100"`
	IsCompleted       bool `json:"is_completed"`
}

// ExamLite describes the question set of an Exam lesson.
type ExamLite struct {
	QuestionSetID    uuid.UUID  `json:"question_set_id"`
	Slug             string     `json:"slug"`
	PassingWeightage float64    `json:"passing_weightage"`
	AllowedRetake    int        `json:"allowed_retake"`
	Duration         int        `json:"duration"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
	QuestionCount    int64      `json:"question_count"`
}

// LiveLite describes the meeting of a LiveClass lesson. Passcodes only go out through join.
type LiveLite struct {
	MeetingID     uuid.UUID `json:"meeting_id"`
	ZoomLicenseID uuid.UUID `json:"zoom_license_id"`
	StartDate     time.Time `json:"start_date"`
	Duration      int       `json:"duration"`
}

type LessonResponse struct {
	model.LessonModel
	WatchedPercentage int       `json:"watched_percentage"`
	IsCompleted       bool      `json:"is_completed"`
	IsPassed          bool      `json:"is_passed"`
	Exam              *ExamLite `json:"exam,omitempty"`
	Live              *LiveLite `json:"live,omitempty"`
}

type WatchResponse struct {
	LessonID          uuid.UUID `json:"lesson_id"`
	Percentage        int       `json:"percentage"`
	EnrollmentStatus  string    `json:"enrollment_status"`
	CurrentLessonID   uuid.UUID `json:"current_lesson_id"`
	WatchedPercentage int       `json:"watched_percentage"`
}

// CompletableByWatch reports whether a lesson type can be completed from the watch endpoint.
// Exams, assignments and feedback forms complete through their own submissions.
func CompletableByWatch(lessonType string) bool {
	switch lessonType {
	case constants.LessonExam, constants.LessonAssignment, constants.LessonFeedback:
		return false
	}
	return true
}
