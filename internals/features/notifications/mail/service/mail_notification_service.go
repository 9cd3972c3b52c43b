package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	dto "academykit_backend/internals/features/notifications/mail/dto"
	model "academykit_backend/internals/features/notifications/mail/model"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/mailer"
)

var sortColumns = map[string]string{
	"name":       "name",
	"mail_type":  "mail_type",
	"created_on": "created_on",
}

type MailNotificationService struct {
	DB          *gorm.DB
	Sender      mailer.Sender
	App         string
	FrontendURL string
}

func NewMailNotificationService(db *gorm.DB, sender mailer.Sender, app, frontendURL string) *MailNotificationService {
	return &MailNotificationService{DB: db, Sender: sender, App: app, FrontendURL: frontendURL}
}

func (s *MailNotificationService) List(ctx context.Context, f dto.ListQuery, p helper.Params) ([]model.MailNotificationModel, helper.Pagination, error) {
	q := s.DB.WithContext(ctx).Model(&model.MailNotificationModel{})
	if f.MailType != "" {
		q = q.Where("mail_type = ?", f.MailType)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if like := p.SearchLike(); like != "" {
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(subject) LIKE ?)", like, like)
	}
	var rows []model.MailNotificationModel
	pg, err := helper.Paginate(q, p, p.OrderClause(sortColumns, "created_on"), &rows)
	return rows, pg, err
}

func (s *MailNotificationService) Get(ctx context.Context, id uuid.UUID) (*model.MailNotificationModel, error) {
	var m model.MailNotificationModel
	if err := s.DB.WithContext(ctx).Take(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("mail notification not found")
		}
		return nil, err
	}
	return &m, nil
}

// save keeps at most one active template per mail type.
func (s *MailNotificationService) save(ctx context.Context, m *model.MailNotificationModel) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.IsActive {
			q := tx.Model(&model.MailNotificationModel{}).Where("mail_type = ? AND is_active", m.MailType)
			if m.ID != uuid.Nil {
				q = q.Where("id <> ?", m.ID)
			}
			if err := q.Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(m).Error
	})
}

func (s *MailNotificationService) Create(ctx context.Context, actor helper.CurrentUser, req dto.MailNotificationRequest) (*model.MailNotificationModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m := &model.MailNotificationModel{Audit: helper.NewAudit(actor.ID)}
	req.Apply(m)
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MailNotificationService) Update(ctx context.Context, actor helper.CurrentUser, id uuid.UUID, req dto.MailNotificationRequest) (*model.MailNotificationModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(m)
	m.Touch(actor.ID)
	if err := s.save(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MailNotificationService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.DB.WithContext(ctx).Delete(&model.MailNotificationModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.ErrNotFound("mail notification not found")
	}
	return nil
}

func (s *MailNotificationService) render(m *model.MailNotificationModel, name string) (mailer.Message, error) {
	data := dto.SampleData(m.MailType)
	if name != "" {
		data["Name"] = name
	}
	subject, body, err := mailer.RenderStrings(m.Subject, m.Message, mailer.TemplateData{App: s.App, FrontendURL: s.FrontendURL, Data: data})
	if err != nil {
		return mailer.Message{}, helper.ErrFieldValidation("message", err.Error())
	}
	return mailer.Message{Subject: subject, HTML: body, Text: mailer.HTMLToText(body)}, nil
}

// Preview renders the template with sample data, whether or not it is active.
func (s *MailNotificationService) Preview(ctx context.Context, id uuid.UUID) (*dto.Preview, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	msg, err := s.render(m, "")
	if err != nil {
		return nil, err
	}
	return &dto.Preview{Subject: msg.Subject, HTML: msg.HTML, Text: msg.Text}, nil
}

// Test sends the rendered template straight to the caller, bypassing the mail queue.
func (s *MailNotificationService) Test(ctx context.Context, actor helper.CurrentUser, id uuid.UUID) error {
	m, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).Take(&u, "id = ?", actor.ID).Error; err != nil {
		return helper.ErrNotFound("user not found")
	}
	msg, err := s.render(m, u.FullName())
	if err != nil {
		return err
	}
	msg.To = mailer.To(u.FullName(), u.Email)
	if err := s.Sender.SendMessages(ctx, msg); err != nil {
		return helper.ErrUnavailable("mail provider rejected the message", err)
	}
	log.Info().Str("mail_type", m.MailType).Str("to", u.Email).Msg("[MAIL] test sent")
	return nil
}
