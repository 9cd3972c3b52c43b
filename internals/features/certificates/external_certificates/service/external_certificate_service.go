package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	dto "academykit_backend/internals/features/certificates/external_certificates/dto"
	model "academykit_backend/internals/features/certificates/external_certificates/model"
	notify "academykit_backend/internals/features/notifications/notifications/service"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
)

type ExternalCertificateService struct {
	DB *gorm.DB
}

func NewExternalCertificateService(db *gorm.DB) *ExternalCertificateService {
	return &ExternalCertificateService{DB: db}
}

var sortColumns = map[string]string{
	"name":       "external_certificates.name",
	"start_date": "external_certificates.start_date",
	"created_on": "external_certificates.created_on",
}

// List shows users their own certificates. Admins see everyone's and may filter by user.
func (s *ExternalCertificateService) List(ctx context.Context, actor helper.CurrentUser, f dto.ListQuery, p helper.Params) ([]dto.ExternalCertificateResponse, helper.Pagination, error) {
	q := s.DB.WithContext(ctx).Model(&model.ExternalCertificateModel{}).
		Select(`external_certificates.*, TRIM(u.first_name || ' ' || u.last_name) AS user_name, u.email AS user_email`).
		Joins("JOIN users u ON u.id = external_certificates.user_id")
	switch {
	case !actor.IsAdmin():
		q = q.Where("external_certificates.user_id = ?", actor.ID)
	case f.UserID != nil:
		q = q.Where("external_certificates.user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		q = q.Where("external_certificates.status = ?", f.Status)
	}
	if like := p.SearchLike(); like != "" {
		q = q.Where("(LOWER(external_certificates.name) LIKE ? OR LOWER(external_certificates.institute) LIKE ?)", like, like)
	}
	var rows []dto.ExternalCertificateResponse
	pg, err := helper.Paginate(q, p, p.OrderClause(sortColumns, "created_on"), &rows)
	return rows, pg, err
}

func (s *ExternalCertificateService) load(ctx context.Context, actor helper.CurrentUser, id uuid.UUID) (*model.ExternalCertificateModel, error) {
	var m model.ExternalCertificateModel
	if err := s.DB.WithContext(ctx).Take(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("certificate not found")
		}
		return nil, err
	}
	if m.UserID != actor.ID && !actor.IsAdmin() {
		return nil, helper.ErrNotFound("certificate not found")
	}
	return &m, nil
}

func (s *ExternalCertificateService) Get(ctx context.Context, actor helper.CurrentUser, id uuid.UUID) (*model.ExternalCertificateModel, error) {
	return s.load(ctx, actor, id)
}

func (s *ExternalCertificateService) Create(ctx context.Context, actor helper.CurrentUser, req dto.ExternalCertificateRequest) (*model.ExternalCertificateModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m := &model.ExternalCertificateModel{UserID: actor.ID, Status: constants.StatusDraft, Audit: helper.NewAudit(actor.ID)}
	req.Apply(m)
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ExternalCertificateService) ownEditable(ctx context.Context, actor helper.CurrentUser, id uuid.UUID) (*model.ExternalCertificateModel, error) {
	m, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if m.UserID != actor.ID {
		return nil, helper.ErrForbidden("only the owner can change this certificate")
	}
	if !dto.Editable(m.Status) {
		return nil, helper.ErrConflict("certificate is " + m.Status + " and can no longer be changed")
	}
	return m, nil
}

// Update edits a Draft or Rejected certificate. A rejected one goes back to Draft.
func (s *ExternalCertificateService) Update(ctx context.Context, actor helper.CurrentUser, id uuid.UUID, req dto.ExternalCertificateRequest) (*model.ExternalCertificateModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m, err := s.ownEditable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	req.Apply(m)
	m.Status = constants.StatusDraft
	m.Touch(actor.ID)
	if err := s.DB.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// Submit sends the certificate to admins for verification.
func (s *ExternalCertificateService) Submit(ctx context.Context, actor helper.CurrentUser, id uuid.UUID) (*model.ExternalCertificateModel, error) {
	m, err := s.ownEditable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	m.Status = constants.StatusReview
	m.Touch(actor.ID)
	if err := s.DB.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	var admins []uuid.UUID
	if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("status = ? AND role IN ?", constants.UserActive, constants.AdminAndAbove).
		Pluck("id", &admins).Error; err == nil {
		notify.NotifyOrLog(ctx, s.DB, admins, "External certificate", actor.Name+" submitted "+m.Name+" for verification.")
	}
	return m, nil
}

func (s *ExternalCertificateService) Delete(ctx context.Context, actor helper.CurrentUser, id uuid.UUID) error {
	m, err := s.load(ctx, actor, id)
	if err != nil {
		return err
	}
	if m.UserID != actor.ID && !actor.IsAdmin() {
		return helper.ErrForbidden("only the owner can delete this certificate")
	}
	return s.DB.WithContext(ctx).Delete(m).Error
}

// Verify is the admin decision on a certificate under review.
func (s *ExternalCertificateService) Verify(ctx context.Context, actor helper.CurrentUser, id uuid.UUID, req dto.VerifyRequest) (*model.ExternalCertificateModel, error) {
	if !actor.IsAdmin() {
		return nil, helper.ErrForbidden("only admins can verify certificates")
	}
	m, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if m.Status != constants.StatusReview {
		return nil, helper.ErrConflict("only certificates under review can be verified")
	}
	m.Status = req.Status
	m.VerifiedBy = &actor.ID
	m.Touch(actor.ID)
	if err := s.DB.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	notify.NotifyOrLog(ctx, s.DB, []uuid.UUID{m.UserID}, "External certificate", m.Name+" was "+req.Status+".")
	return m, nil
}
