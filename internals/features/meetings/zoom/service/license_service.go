package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	meetingModel "academykit_backend/internals/features/meetings/meetings/model"
	dto "academykit_backend/internals/features/meetings/zoom/dto"
	model "academykit_backend/internals/features/meetings/zoom/model"
	helper "academykit_backend/internals/helpers"
)

type LicenseService struct {
	DB *gorm.DB
}

func NewLicenseService(db *gorm.DB) *LicenseService { return &LicenseService{DB: db} }

func (s *LicenseService) List(ctx context.Context, p helper.Params) ([]model.ZoomLicenseModel, helper.Pagination, error) {
	q := s.DB.WithContext(ctx).Model(&model.ZoomLicenseModel{})
	if like := p.SearchLike(); like != "" {
		q = q.Where("LOWER(license_email) LIKE ?", like)
	}
	var out []model.ZoomLicenseModel
	pg, err := helper.Paginate(q, p, "created_on DESC", &out)
	return out, pg, err
}

func LoadLicense(ctx context.Context, db *gorm.DB, id uuid.UUID) (*model.ZoomLicenseModel, error) {
	var l model.ZoomLicenseModel
	if err := db.WithContext(ctx).Take(&l, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("zoom license not found")
		}
		return nil, err
	}
	return &l, nil
}

func (s *LicenseService) Create(ctx context.Context, by uuid.UUID, req dto.LicenseRequest) (*model.ZoomLicenseModel, error) {
	l := &model.ZoomLicenseModel{LicenseEmail: req.LicenseEmail, HostID: req.HostID, Capacity: req.Capacity, IsActive: true, Audit: helper.NewAudit(by)}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	if err := s.DB.WithContext(ctx).Create(l).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("a license with this email already exists")
		}
		return nil, err
	}
	return l, nil
}

func (s *LicenseService) Update(ctx context.Context, by, id uuid.UUID, req dto.LicenseRequest) (*model.ZoomLicenseModel, error) {
	l, err := LoadLicense(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	l.LicenseEmail, l.HostID, l.Capacity = req.LicenseEmail, req.HostID, req.Capacity
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	l.Touch(by)
	if err := s.DB.WithContext(ctx).Save(l).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, helper.ErrConflict("a license with this email already exists")
		}
		return nil, err
	}
	return l, nil
}

// Delete refuses licenses that still host meetings.
func (s *LicenseService) Delete(ctx context.Context, id uuid.UUID) error {
	l, err := LoadLicense(ctx, s.DB, id)
	if err != nil {
		return err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&meetingModel.MeetingModel{}).Where("zoom_license_id = ?", l.ID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return helper.ErrConflict("license is used by meetings")
	}
	return s.DB.WithContext(ctx).Delete(l).Error
}

// Active lists active licenses with no meeting overlapping [start, start+duration).
func (s *LicenseService) Active(ctx context.Context, q dto.ActiveQuery) ([]model.ZoomLicenseModel, error) {
	var licenses []model.ZoomLicenseModel
	if err := s.DB.WithContext(ctx).Where("is_active").Order("license_email ASC").Find(&licenses).Error; err != nil {
		return nil, err
	}
	end := q.StartDate.Add(time.Duration(q.Duration) * time.Second)
	busy, err := busyLicenses(ctx, s.DB, q.StartDate, end, q.MeetingID)
	if err != nil {
		return nil, err
	}
	out := make([]model.ZoomLicenseModel, 0, len(licenses))
	for _, l := range licenses {
		if !busy[l.ID] {
			out = append(out, l)
		}
	}
	return out, nil
}

// busyLicenses returns licenses holding a meeting that overlaps [start, end).
func busyLicenses(ctx context.Context, db *gorm.DB, start, end time.Time, except *uuid.UUID) (map[uuid.UUID]bool, error) {
	var meetings []meetingModel.MeetingModel
	q := db.WithContext(ctx).Where("start_date < ? AND start_date + duration * INTERVAL '1 second' > ?", end, start)
	if except != nil {
		q = q.Where("id <> ?", *except)
	}
	if err := q.Find(&meetings).Error; err != nil {
		return nil, err
	}
	out := map[uuid.UUID]bool{}
	for _, m := range meetings {
		if meetingModel.Overlaps(start, end, m.StartDate, m.EndDate()) {
			out[m.ZoomLicenseID] = true
		}
	}
	return out, nil
}

// EnsureLicenseFree answers 409 when the license is inactive or already booked in the window.
func EnsureLicenseFree(ctx context.Context, db *gorm.DB, licenseID uuid.UUID, start time.Time, durationSec int, except *uuid.UUID) (*model.ZoomLicenseModel, error) {
	l, err := LoadLicense(ctx, db, licenseID)
	if err != nil {
		return nil, err
	}
	if !l.IsActive {
		return nil, helper.ErrConflict("zoom license is not active")
	}
	busy, err := busyLicenses(ctx, db, start, start.Add(time.Duration(durationSec)*time.Second), except)
	if err != nil {
		return nil, err
	}
	if busy[l.ID] {
		return nil, helper.ErrConflict("zoom license already has a meeting in this time window")
	}
	return l, nil
}
