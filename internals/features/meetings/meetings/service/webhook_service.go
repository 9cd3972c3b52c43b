package service

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	dto "academykit_backend/internals/features/meetings/meetings/dto"
	model "academykit_backend/internals/features/meetings/meetings/model"
	zoomService "academykit_backend/internals/features/meetings/zoom/service"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/jobs"
	"academykit_backend/internals/helpers/zoom"
)

const (
	TopicRecording = "zoom.recording"

	EventURLValidation     = "endpoint.url_validation"
	EventParticipantJoined = "meeting.participant_joined"
	EventParticipantLeft   = "meeting.participant_left"
	EventRecordingDone     = "recording.completed"
)

type WebhookService struct {
	DB   *gorm.DB
	Jobs jobs.Enqueuer
	now  func() time.Time
}

func NewWebhookService(db *gorm.DB, q jobs.Enqueuer) *WebhookService {
	return &WebhookService{DB: db, Jobs: q, now: time.Now}
}

// Handle verifies and processes one webhook delivery. The returned value, when
// not nil, is the response body (url validation only).
func (s *WebhookService) Handle(ctx context.Context, timestamp, signature string, body []byte) (any, error) {
	settings, err := zoomService.LoadSettings(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if settings.WebhookSecret == "" {
		return nil, helper.ErrUnavailable("zoom webhook secret is not configured", nil)
	}
	if !zoom.VerifyWebhook(settings.WebhookSecret, timestamp, body, signature) {
		return nil, helper.ErrUnauthorized("invalid zoom signature")
	}

	var ev dto.WebhookEvent
	if err := sonic.Unmarshal(body, &ev); err != nil {
		return nil, helper.ErrBadRequest("invalid webhook payload")
	}

	switch ev.Event {
	case EventURLValidation:
		if ev.Payload.PlainToken == "" {
			return nil, helper.ErrBadRequest("plainToken is required")
		}
		return dto.URLValidationResponse{
			PlainToken:     ev.Payload.PlainToken,
			EncryptedToken: zoom.EncryptPlainToken(settings.WebhookSecret, ev.Payload.PlainToken),
		}, nil
	case EventParticipantJoined:
		return nil, s.participantJoined(ctx, ev)
	case EventParticipantLeft:
		return nil, s.participantLeft(ctx, ev)
	case EventRecordingDone:
		if !settings.IsRecordingEnabled {
			return nil, nil
		}
		job := dto.RecordingJob{MeetingNumber: int64(ev.Payload.Object.ID), DownloadToken: ev.DownloadToken, Files: ev.Payload.Object.RecordingFiles}
		if err := s.Jobs.Enqueue(ctx, TopicRecording, job); err != nil {
			return nil, helper.ErrService("could not queue recording import", err)
		}
		return nil, nil
	default:
		log.Debug().Str("event", ev.Event).Msg("[ZOOM] ignored webhook event")
		return nil, nil
	}
}

func (s *WebhookService) meetingByNumber(ctx context.Context, number int64) (*model.MeetingModel, error) {
	var m model.MeetingModel
	res := s.DB.WithContext(ctx).Where("meeting_number = ?", number).Order("start_date DESC").Limit(1).Find(&m)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &m, nil
}

func (s *WebhookService) userByEmail(ctx context.Context, email string) (*uuid.UUID, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var u userModel.UserModel
	res := s.DB.WithContext(ctx).Select("id").Where("LOWER(email) = ?", email).Limit(1).Find(&u)
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, res.Error
	}
	return &u.ID, nil
}

// participantJoined ignores meetings this system did not schedule.
func (s *WebhookService) participantJoined(ctx context.Context, ev dto.WebhookEvent) error {
	p := ev.Payload.Object.Participant
	if p == nil {
		return helper.ErrBadRequest("participant is required")
	}
	m, err := s.meetingByNumber(ctx, int64(ev.Payload.Object.ID))
	if err != nil || m == nil {
		return err
	}
	userID, err := s.userByEmail(ctx, p.Email)
	if err != nil {
		return err
	}
	joined := s.now().UTC()
	if p.JoinTime != nil {
		joined = p.JoinTime.UTC()
	}
	raw, err := sonic.Marshal(p)
	if err != nil {
		return helper.ErrService("encode participant", err)
	}
	r := model.MeetingReportModel{
		MeetingID: m.ID,
		UserID:    userID,
		Email:     strings.ToLower(p.Email),
		Name:      p.UserName,
		JoinTime:  joined,
		Payload:   datatypes.JSON(raw),
	}
	if userID != nil {
		r.Audit = helper.NewAudit(*userID)
	}
	return s.DB.WithContext(ctx).Create(&r).Error
}

// participantLeft closes the newest open row of that participant.
func (s *WebhookService) participantLeft(ctx context.Context, ev dto.WebhookEvent) error {
	p := ev.Payload.Object.Participant
	if p == nil {
		return helper.ErrBadRequest("participant is required")
	}
	m, err := s.meetingByNumber(ctx, int64(ev.Payload.Object.ID))
	if err != nil || m == nil {
		return err
	}
	q := s.DB.WithContext(ctx).Where("meeting_id = ? AND left_time IS NULL", m.ID)
	if email := strings.ToLower(strings.TrimSpace(p.Email)); email != "" {
		q = q.Where("email = ?", email)
	} else {
		q = q.Where("name = ?", p.UserName)
	}
	var r model.MeetingReportModel
	res := q.Order("join_time DESC").Limit(1).Find(&r)
	if res.Error != nil || res.RowsAffected == 0 {
		return res.Error
	}
	left := s.now().UTC()
	if p.LeaveTime != nil {
		left = p.LeaveTime.UTC()
	}
	return s.DB.WithContext(ctx).Model(&r).Updates(map[string]any{
		"left_time":  left,
		"duration":   ReportDuration(r.JoinTime, left),
		"updated_on": s.now().UTC(),
	}).Error
}

// ReportDuration is the attended time in whole seconds, never negative.
func ReportDuration(join, left time.Time) int {
	d := left.Sub(join)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
