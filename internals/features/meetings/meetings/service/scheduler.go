package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	model "academykit_backend/internals/features/meetings/meetings/model"
	zoomService "academykit_backend/internals/features/meetings/zoom/service"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/zoom"
)

// Scheduler books Zoom meetings for live-class lessons.
type Scheduler struct {
	Zoom *zoom.Client
}

func NewScheduler(z *zoom.Client) *Scheduler { return &Scheduler{Zoom: z} }

type ScheduleInput struct {
	Topic     string
	LicenseID uuid.UUID
	StartDate time.Time
	Duration  int // seconds
	LessonID  *uuid.UUID
	By        uuid.UUID
}

func zoomError(err error) error {
	if errors.Is(err, zoom.ErrNotConfigured) {
		return helper.ErrUnavailable("zoom is not configured", err)
	}
	var apiErr *zoom.APIError
	if errors.As(err, &apiErr) && apiErr.Status < 500 {
		return helper.ErrBadRequest("zoom rejected the meeting: " + apiErr.Body)
	}
	return helper.ErrUnavailable("zoom is unavailable", err)
}

// Schedule checks the license window, creates the Zoom meeting and stores it with tx.
// The remote meeting is removed again when the insert fails.
func (s *Scheduler) Schedule(ctx context.Context, tx *gorm.DB, in ScheduleInput) (*model.MeetingModel, error) {
	if s.Zoom == nil {
		return nil, helper.ErrUnavailable("zoom is not configured", nil)
	}
	lic, err := zoomService.EnsureLicenseFree(ctx, tx, in.LicenseID, in.StartDate, in.Duration, nil)
	if err != nil {
		return nil, err
	}
	settings, err := zoomService.LoadSettings(ctx, tx)
	if err != nil {
		return nil, err
	}
	zm, err := s.Zoom.CreateMeeting(ctx, lic.HostID, zoom.NewScheduledMeeting(in.Topic, in.StartDate, in.Duration, settings.IsRecordingEnabled))
	if err != nil {
		return nil, zoomError(err)
	}
	m := &model.MeetingModel{
		MeetingNumber: zm.ID,
		Passcode:      zm.Password,
		ZoomLicenseID: lic.ID,
		StartDate:     in.StartDate.UTC(),
		Duration:      in.Duration,
		LessonID:      in.LessonID,
		Audit:         helper.NewAudit(in.By),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		s.Discard(ctx, m.MeetingNumber)
		return nil, err
	}
	return m, nil
}

// Reschedule moves a meeting. A license change recreates it under the new host.
func (s *Scheduler) Reschedule(ctx context.Context, tx *gorm.DB, m *model.MeetingModel, in ScheduleInput) error {
	if s.Zoom == nil {
		return helper.ErrUnavailable("zoom is not configured", nil)
	}
	lic, err := zoomService.EnsureLicenseFree(ctx, tx, in.LicenseID, in.StartDate, in.Duration, &m.ID)
	if err != nil {
		return err
	}
	settings, err := zoomService.LoadSettings(ctx, tx)
	if err != nil {
		return err
	}
	req := zoom.NewScheduledMeeting(in.Topic, in.StartDate, in.Duration, settings.IsRecordingEnabled)

	if lic.ID != m.ZoomLicenseID {
		zm, err := s.Zoom.CreateMeeting(ctx, lic.HostID, req)
		if err != nil {
			return zoomError(err)
		}
		s.Discard(ctx, m.MeetingNumber)
		m.MeetingNumber, m.Passcode, m.ZoomLicenseID = zm.ID, zm.Password, lic.ID
	} else if err := s.Zoom.UpdateMeeting(ctx, m.MeetingNumber, req); err != nil {
		return zoomError(err)
	}
	m.StartDate = in.StartDate.UTC()
	m.Duration = in.Duration
	m.Touch(in.By)
	return tx.WithContext(ctx).Save(m).Error
}

// Cancel deletes the meeting locally and on Zoom.
func (s *Scheduler) Cancel(ctx context.Context, tx *gorm.DB, m *model.MeetingModel) error {
	if err := tx.WithContext(ctx).Where("meeting_id = ?", m.ID).Delete(&model.MeetingReportModel{}).Error; err != nil {
		return err
	}
	if err := tx.WithContext(ctx).Delete(m).Error; err != nil {
		return err
	}
	s.Discard(ctx, m.MeetingNumber)
	return nil
}

// Discard removes a remote meeting, logging failures.
func (s *Scheduler) Discard(ctx context.Context, meetingNumber int64) {
	if s.Zoom == nil || meetingNumber == 0 {
		return
	}
	if err := s.Zoom.DeleteMeeting(ctx, meetingNumber); err != nil {
		log.Warn().Err(err).Int64("meeting_number", meetingNumber).Msg("[ZOOM] delete meeting failed")
	}
}

func LoadMeeting(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.MeetingModel, error) {
	var m model.MeetingModel
	if err := db.WithContext(ctx).Take(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("meeting not found")
		}
		return nil, err
	}
	return &m, nil
}
