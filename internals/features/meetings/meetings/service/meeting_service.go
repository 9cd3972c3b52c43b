package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	courseService "academykit_backend/internals/features/courses/courses/service"
	lessonModel "academykit_backend/internals/features/courses/lessons/model"
	dto "academykit_backend/internals/features/meetings/meetings/dto"
	model "academykit_backend/internals/features/meetings/meetings/model"
	zoomService "academykit_backend/internals/features/meetings/zoom/service"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/zoom"
)

type MeetingService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewMeetingService(db *gorm.DB) *MeetingService {
	return &MeetingService{DB: db, now: time.Now}
}

// access resolves the course behind a meeting's lesson.
func (s *MeetingService) access(ctx context.Context, actor helper.CurrentUser, id uuid.UUID) (*model.MeetingModel, *courseService.Access, error) {
	m, err := LoadMeeting(ctx, s.DB, id)
	if err != nil {
		return nil, nil, err
	}
	if m.LessonID == nil {
		if !actor.IsAdmin() {
			return nil, nil, helper.ErrForbidden("meeting is not attached to a lesson")
		}
		return m, &courseService.Access{Admin: true}, nil
	}
	var l lessonModel.LessonModel
	if err := s.DB.WithContext(ctx).Take(&l, "id = ?", *m.LessonID).Error; err != nil {
		return nil, nil, err
	}
	a, err := courseService.ResolveAccess(ctx, s.DB, actor, l.CourseID.String())
	if err != nil {
		return nil, nil, err
	}
	return m, a, nil
}

// Join returns what the Meeting SDK needs. Teachers join as host.
func (s *MeetingService) Join(ctx context.Context, actor helper.CurrentUser, id uuid.UUID) (*dto.JoinResponse, error) {
	m, a, err := s.access(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !a.CanLearn() {
		return nil, helper.ErrForbidden("you are not enrolled in this course")
	}
	settings, err := zoomService.LoadSettings(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if settings.SDKKey == "" || settings.SDKSecret == "" {
		return nil, helper.ErrUnavailable("zoom sdk is not configured", nil)
	}
	role := zoom.RoleAttendee
	if a.IsTeacher() {
		role = zoom.RoleHost
	}
	sig, err := zoom.SDKSignature(settings.SDKKey, settings.SDKSecret, m.MeetingNumber, role, s.now())
	if err != nil {
		return nil, helper.ErrService("could not sign meeting token", err)
	}
	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).Take(&u, "id = ?", actor.ID).Error; err != nil {
		return nil, err
	}
	return &dto.JoinResponse{
		MeetingID:     m.ID,
		MeetingNumber: m.MeetingNumber,
		Passcode:      m.Passcode,
		Signature:     sig,
		SDKKey:        settings.SDKKey,
		Role:          role,
		StartDate:     m.StartDate,
		Duration:      m.Duration,
		UserName:      u.FullName(),
		UserEmail:     u.Email,
	}, nil
}

func (s *MeetingService) Get(ctx context.Context, actor helper.CurrentUser, id uuid.UUID) (*model.MeetingModel, error) {
	m, a, err := s.access(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !a.CanLearn() {
		return nil, helper.ErrForbidden("you are not enrolled in this course")
	}
	return m, nil
}

func (s *MeetingService) Reports(ctx context.Context, actor helper.CurrentUser, id uuid.UUID, p helper.Params) ([]model.MeetingReportModel, helper.Pagination, error) {
	m, a, err := s.access(ctx, actor, id)
	if err != nil {
		return nil, helper.Pagination{}, err
	}
	if !a.CanManage() {
		return nil, helper.Pagination{}, helper.ErrForbidden("only course teachers or admins can read reports")
	}
	q := s.DB.WithContext(ctx).Model(&model.MeetingReportModel{}).Where("meeting_id = ?", m.ID)
	if like := p.SearchLike(); like != "" {
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", like, like)
	}
	var out []model.MeetingReportModel
	pg, err := helper.Paginate(q.Omit("payload"), p, "join_time ASC", &out)
	return out, pg, err
}
