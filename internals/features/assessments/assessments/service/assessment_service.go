package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	dto "academykit_backend/internals/features/assessments/assessments/dto"
	model "academykit_backend/internals/features/assessments/assessments/model"
	"academykit_backend/internals/features/assessments/grading"
	notify "academykit_backend/internals/features/notifications/notifications/service"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
)

type AssessmentService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewAssessmentService(db *gorm.DB) *AssessmentService {
	return &AssessmentService{DB: db, now: time.Now}
}

func isAuthor(a *model.AssessmentModel, actor helper.CurrentUser) bool {
	return a.CreatedBy != nil && *a.CreatedBy == actor.ID
}

func canManage(a *model.AssessmentModel, actor helper.CurrentUser) bool {
	return actor.IsAdmin() || isAuthor(a, actor)
}

func (s *AssessmentService) load(ctx context.Context, identity string) (*model.AssessmentModel, error) {
	var a model.AssessmentModel
	if err := helper.IdentityWhere(s.DB.WithContext(ctx), "id", "slug", identity).Take(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("assessment not found")
		}
		return nil, err
	}
	return &a, nil
}

func (s *AssessmentService) loadManage(ctx context.Context, actor helper.CurrentUser, identity string) (*model.AssessmentModel, error) {
	a, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !canManage(a, actor) {
		return nil, helper.ErrForbidden("only the author or an admin can change this assessment")
	}
	return a, nil
}

// loadVisible answers 404 for assessments a trainee may not see.
func (s *AssessmentService) loadVisible(ctx context.Context, actor helper.CurrentUser, identity string) (*model.AssessmentModel, bool, error) {
	a, err := s.load(ctx, identity)
	if err != nil {
		return nil, false, err
	}
	if canManage(a, actor) {
		eligible, err := s.isEligible(ctx, actor, a.ID)
		return a, eligible, err
	}
	if a.Status != constants.StatusPublished || !a.IsActive {
		return nil, false, helper.ErrNotFound("assessment not found")
	}
	eligible, err := s.isEligible(ctx, actor, a.ID)
	if err != nil {
		return nil, false, err
	}
	if !eligible {
		return nil, false, helper.ErrNotFound("assessment not found")
	}
	return a, true, nil
}

var sortColumns = map[string]string{
	"title":      "assessments.title",
	"start_date": "assessments.start_date",
	"created_on": "assessments.created_on",
}

// List shows admins everything, authors their own work, and everyone the published
// active assessments they are eligible for.
func (s *AssessmentService) List(ctx context.Context, actor helper.CurrentUser, f dto.ListQuery, p helper.Params) ([]dto.AssessmentResponse, helper.Pagination, error) {
	q := s.DB.WithContext(ctx).Model(&model.AssessmentModel{})
	if !actor.IsAdmin() {
		profile, err := s.profile(ctx, actor)
		if err != nil {
			return nil, helper.Pagination{}, err
		}
		open := s.DB.Where("assessments.status = ? AND assessments.is_active", constants.StatusPublished).Where(eligibleScope(s.DB, profile))
		q = q.Where(s.DB.Where("assessments.created_by = ?", actor.ID).Or(open))
	}
	if f.Status != "" {
		q = q.Where("assessments.status = ?", f.Status)
	}
	if like := p.SearchLike(); like != "" {
		q = q.Where("LOWER(assessments.title) LIKE ?", like)
	}
	var rows []model.AssessmentModel
	pg, err := helper.Paginate(q, p, p.OrderClause(sortColumns, "created_on"), &rows)
	if err != nil {
		return nil, pg, err
	}
	out, err := s.decorate(ctx, actor, rows, nil)
	return out, pg, err
}

// decorate adds question counts and the caller's attempt state. eligible may be nil,
// in which case eligibility is computed per row.
func (s *AssessmentService) decorate(ctx context.Context, actor helper.CurrentUser, rows []model.AssessmentModel, eligible *bool) ([]dto.AssessmentResponse, error) {
	out := make([]dto.AssessmentResponse, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	type countRow struct {
		AssessmentID uuid.UUID
		N            int64
	}
	count := func(m any, where string, args ...any) (map[uuid.UUID]int64, error) {
		var rs []countRow
		err := s.DB.WithContext(ctx).Model(m).Select("assessment_id, COUNT(*) AS n").
			Where("assessment_id IN ?", ids).Where(where, args...).Group("assessment_id").Scan(&rs).Error
		res := map[uuid.UUID]int64{}
		for _, r := range rs {
			res[r.AssessmentID] = r.N
		}
		return res, err
	}
	questions, err := count(&model.AssessmentQuestionModel{}, "1 = 1")
	if err != nil {
		return nil, err
	}
	attempts, err := count(&model.AssessmentSubmissionModel{}, "user_id = ?", actor.ID)
	if err != nil {
		return nil, err
	}
	passed, err := count(&model.AssessmentResultModel{}, "user_id = ? AND is_passed", actor.ID)
	if err != nil {
		return nil, err
	}

	for i, r := range rows {
		el := false
		if eligible != nil {
			el = *eligible
		} else if el, err = s.isEligible(ctx, actor, r.ID); err != nil {
			return nil, err
		}
		o := dto.AssessmentResponse{
			AssessmentModel: r,
			QuestionCount:   questions[r.ID],
			IsAuthor:        isAuthor(&rows[i], actor),
			IsEligible:      el,
			AttemptsUsed:    attempts[r.ID],
			HasPassed:       passed[r.ID] > 0,
		}
		if left := int64(grading.AttemptsAllowed(r.Retakes)) - o.AttemptsUsed; left > 0 {
			o.AttemptsLeft = left
		}
		out[i] = o
	}
	return out, nil
}

func (s *AssessmentService) Get(ctx context.Context, actor helper.CurrentUser, identity string) (*dto.AssessmentResponse, error) {
	a, eligible, err := s.loadVisible(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	out, err := s.decorate(ctx, actor, []model.AssessmentModel{*a}, &eligible)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *AssessmentService) Create(ctx context.Context, actor helper.CurrentUser, req dto.AssessmentRequest) (*model.AssessmentModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a := &model.AssessmentModel{Status: constants.StatusDraft, IsActive: true, Audit: helper.NewAudit(actor.ID)}
	req.Apply(a)
	slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "assessments", "slug", req.Title, nil, 0)
	if err != nil {
		return nil, err
	}
	a.Slug = slug
	if err := s.DB.WithContext(ctx).Omit("Questions", "Eligibility").Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// Update edits the settings. An author editing while in Review pulls it back to Draft.
func (s *AssessmentService) Update(ctx context.Context, actor helper.CurrentUser, identity string, req dto.AssessmentRequest) (*model.AssessmentModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := s.loadManage(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	if a.Title != req.Title {
		slug, err := helper.EnsureUniqueSlugCI(ctx, s.DB, "assessments", "slug", req.Title, helper.ExcludeID("id", a.ID), 0)
		if err != nil {
			return nil, err
		}
		a.Slug = slug
	}
	req.Apply(a)
	if a.Status == constants.StatusReview && !actor.IsAdmin() {
		a.Status = constants.StatusDraft
	}
	a.Touch(actor.ID)
	if err := s.DB.WithContext(ctx).Omit("Questions", "Eligibility").Save(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// Delete refuses once anyone attempted the assessment.
func (s *AssessmentService) Delete(ctx context.Context, actor helper.CurrentUser, identity string) error {
	a, err := s.loadManage(ctx, actor, identity)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.AssessmentSubmissionModel{}).Where("assessment_id = ?", a.ID).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return helper.ErrConflict("assessment has submissions and cannot be deleted")
		}
		questions := tx.Model(&model.AssessmentQuestionModel{}).Select("id").Where("assessment_id = ?", a.ID)
		if err := tx.Where("assessment_question_id IN (?)", questions).Delete(&model.AssessmentOptionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assessment_id = ?", a.ID).Delete(&model.AssessmentQuestionModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("assessment_id = ?", a.ID).Delete(&model.EligibilityModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(a).Error
	})
}

// CheckStatus validates an assessment workflow move.
//
//	author: Draft|Rejected -> Review
//	admin:  Review -> Published|Rejected, Published -> Review
func CheckStatus(from, to string, admin, author bool) error {
	switch to {
	case constants.StatusReview:
		if !admin && !author {
			return helper.ErrForbidden("only the author can request a review")
		}
		if from == constants.StatusDraft || from == constants.StatusRejected || (admin && from == constants.StatusPublished) {
			return nil
		}
	case constants.StatusPublished, constants.StatusRejected:
		if !admin {
			return helper.ErrForbidden("only admins can publish or reject an assessment")
		}
		if from == constants.StatusReview {
			return nil
		}
	default:
		return helper.ErrFieldValidation("status", "status must be Review, Published or Rejected")
	}
	return helper.ErrConflict("assessment cannot move from " + from + " to " + to)
}

func (s *AssessmentService) ChangeStatus(ctx context.Context, actor helper.CurrentUser, identity string, req dto.StatusRequest) (*model.AssessmentModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := s.load(ctx, identity)
	if err != nil {
		return nil, err
	}
	if err := CheckStatus(a.Status, req.Status, actor.IsAdmin(), isAuthor(a, actor)); err != nil {
		return nil, err
	}
	if req.Status == constants.StatusReview {
		var n int64
		if err := s.DB.WithContext(ctx).Model(&model.AssessmentQuestionModel{}).Where("assessment_id = ?", a.ID).Count(&n).Error; err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, helper.ErrBadRequest("add questions before requesting a review")
		}
	}
	a.Status, a.Message = req.Status, req.Message
	a.Touch(actor.ID)
	if err := s.DB.WithContext(ctx).Omit("Questions", "Eligibility").Save(a).Error; err != nil {
		return nil, err
	}

	var recipients []uuid.UUID
	if req.Status == constants.StatusReview {
		if err := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
			Where("status = ? AND role IN ?", constants.UserActive, constants.AdminAndAbove).
			Pluck("id", &recipients).Error; err != nil {
			return nil, err
		}
	} else if a.CreatedBy != nil {
		recipients = []uuid.UUID{*a.CreatedBy}
	}
	ids := recipients[:0]
	for _, id := range recipients {
		if id != actor.ID {
			ids = append(ids, id)
		}
	}
	notify.NotifyOrLog(ctx, s.DB, ids, "Assessment "+a.Title, "Assessment "+a.Title+" is now "+req.Status+".")
	return a, nil
}
