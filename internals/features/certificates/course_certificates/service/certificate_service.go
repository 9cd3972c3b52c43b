package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	dto "academykit_backend/internals/features/certificates/course_certificates/dto"
	model "academykit_backend/internals/features/certificates/course_certificates/model"
	courseModel "academykit_backend/internals/features/courses/courses/model"
	courseService "academykit_backend/internals/features/courses/courses/service"
	notify "academykit_backend/internals/features/notifications/notifications/service"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/jobs"
	"academykit_backend/internals/helpers/mailer"
)

type CertificateService struct {
	DB          *gorm.DB
	Jobs        jobs.Enqueuer
	FrontendURL string
}

func NewCertificateService(db *gorm.DB, q jobs.Enqueuer, frontendURL string) *CertificateService {
	return &CertificateService{DB: db, Jobs: q, FrontendURL: frontendURL}
}

func (s *CertificateService) template(ctx context.Context, courseID uuid.UUID) (*model.CourseCertificateModel, error) {
	var m model.CourseCertificateModel
	res := s.DB.WithContext(ctx).Where("course_id = ?", courseID).Limit(1).Find(&m)
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, res.Error
	}
	return &m, nil
}

func (s *CertificateService) Get(ctx context.Context, actor helper.CurrentUser, courseIdentity string) (*model.CourseCertificateModel, error) {
	a, err := courseService.RequireLearner(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return nil, err
	}
	m, err := s.template(ctx, a.Course.ID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, helper.ErrNotFound("certificate is not set up for this course")
	}
	return m, nil
}

// Save creates or replaces the course certificate template.
func (s *CertificateService) Save(ctx context.Context, actor helper.CurrentUser, courseIdentity string, req dto.CertificateRequest) (*model.CourseCertificateModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := courseService.RequireManage(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return nil, err
	}
	m, err := s.template(ctx, a.Course.ID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = &model.CourseCertificateModel{CourseID: a.Course.ID, Audit: helper.NewAudit(actor.ID)}
	} else {
		m.Touch(actor.ID)
	}
	req.Apply(m)
	if err := s.DB.WithContext(ctx).Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// Issue stamps certificates on completed enrollments. Already issued ones are left as they are,
// and picked users who have not completed the course come back as skipped.
func (s *CertificateService) Issue(ctx context.Context, actor helper.CurrentUser, courseIdentity string, req dto.IssueRequest) (*dto.IssueResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := courseService.RequireManage(ctx, s.DB, actor, courseIdentity)
	if err != nil {
		return nil, err
	}
	tpl, err := s.template(ctx, a.Course.ID)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, helper.ErrBadRequest("set up the course certificate before issuing")
	}

	q := s.DB.WithContext(ctx).Where("course_id = ? AND status = ? AND certificate_issued_date IS NULL", a.Course.ID, constants.EnrollmentCompleted)
	if !req.IssueAll {
		q = q.Where("user_id IN ?", req.UserIDs)
	}
	var enrollments []courseModel.CourseEnrollmentModel
	if err := q.Find(&enrollments).Error; err != nil {
		return nil, err
	}

	out := &dto.IssueResponse{Skipped: []uuid.UUID{}}
	if !req.IssueAll {
		eligible := make(map[uuid.UUID]bool, len(enrollments))
		for _, e := range enrollments {
			eligible[e.UserID] = true
		}
		for _, id := range req.UserIDs {
			if !eligible[id] {
				out.Skipped = append(out.Skipped, id)
			}
		}
	}
	if len(enrollments) == 0 {
		return out, nil
	}

	now := time.Now().UTC()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range enrollments {
			url := dto.CertificateURL(s.FrontendURL, enrollments[i].ID)
			enrollments[i].CertificateIssuedDate, enrollments[i].CertificateURL = &now, &url
			if err := tx.Model(&enrollments[i]).Updates(map[string]any{
				"certificate_issued_date": now,
				"certificate_url":         url,
				"updated_by":              actor.ID,
				"updated_on":              now,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Issued = len(enrollments)

	ids := make([]uuid.UUID, len(enrollments))
	urls := make(map[uuid.UUID]string, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.UserID
		urls[e.UserID] = *e.CertificateURL
	}
	var users []userModel.UserModel
	if err := s.DB.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		log.Warn().Err(err).Msg("[CERTIFICATE] load recipients")
	}
	for _, u := range users {
		mailer.Enqueue(ctx, s.Jobs, constants.MailCertificateIssued, mailer.Recipient{Name: u.FullName(), Email: u.Email}, map[string]any{
			"Name":           u.FullName(),
			"CourseName":     a.Course.Name,
			"CertificateURL": urls[u.ID],
		})
	}
	notify.NotifyOrLog(ctx, s.DB, ids, "Certificate issued", "Your certificate for "+a.Course.Name+" is ready.")
	log.Info().Str("course_id", a.Course.ID.String()).Int("issued", out.Issued).Msg("[CERTIFICATE] issued")
	return out, nil
}

// Verify is the public lookup behind a certificate link.
func (s *CertificateService) Verify(ctx context.Context, enrollmentID uuid.UUID) (*dto.Verification, error) {
	var e courseModel.CourseEnrollmentModel
	err := s.DB.WithContext(ctx).Where("id = ? AND certificate_issued_date IS NOT NULL", enrollmentID).Take(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("certificate not found")
		}
		return nil, err
	}
	course, err := courseService.LoadCourseByID(ctx, s.DB, e.CourseID)
	if err != nil {
		return nil, err
	}
	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).Take(&u, "id = ?", e.UserID).Error; err != nil {
		return nil, err
	}
	out := &dto.Verification{
		EnrollmentID:   e.ID,
		HolderName:     u.FullName(),
		CourseName:     course.Name,
		Title:          course.Name,
		IssuedDate:     *e.CertificateIssuedDate,
		CertificateURL: helper.Deref(e.CertificateURL),
	}
	tpl, err := s.template(ctx, e.CourseID)
	if err != nil {
		return nil, err
	}
	if tpl != nil {
		out.Title, out.EventStartDate, out.EventEndDate = tpl.Title, tpl.EventStartDate, tpl.EventEndDate
	}
	return out, nil
}

// Mine lists the caller's issued course certificates.
func (s *CertificateService) Mine(ctx context.Context, actor helper.CurrentUser) ([]dto.MyCertificate, error) {
	var rows []dto.MyCertificate
	err := s.DB.WithContext(ctx).Table("course_enrollments e").
		Select(`e.id AS enrollment_id, e.course_id, c.name AS course_name,
			e.certificate_issued_date AS issued_date, e.certificate_url`).
		Joins("JOIN courses c ON c.id = e.course_id").
		Where("e.user_id = ? AND e.certificate_issued_date IS NOT NULL", actor.ID).
		Order("e.certificate_issued_date DESC").Scan(&rows).Error
	return rows, err
}
