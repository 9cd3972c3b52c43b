package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"academykit_backend/internals/constants"
	dto "academykit_backend/internals/features/assessments/assessments/dto"
	model "academykit_backend/internals/features/assessments/assessments/model"
	"academykit_backend/internals/features/assessments/grading"
	courseModel "academykit_backend/internals/features/courses/courses/model"
	groupService "academykit_backend/internals/features/users/groups/service"
	userModel "academykit_backend/internals/features/users/users/model"
	helper "academykit_backend/internals/helpers"
)

func (s *AssessmentService) profile(ctx context.Context, actor helper.CurrentUser) (grading.Profile, error) {
	p := grading.Profile{Role: actor.Role}
	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).Select("id", "role", "department_id").Take(&u, "id = ?", actor.ID).Error; err != nil {
		return p, err
	}
	p.Role, p.DepartmentID = u.Role, u.DepartmentID

	groups, err := groupService.UserGroupIDs(ctx, s.DB, actor.ID)
	if err != nil {
		return p, err
	}
	p.GroupIDs = groups

	var completed []uuid.UUID
	if err := s.DB.WithContext(ctx).Model(&courseModel.CourseEnrollmentModel{}).
		Where("user_id = ? AND status = ?", actor.ID, constants.EnrollmentCompleted).
		Pluck("course_id", &completed).Error; err != nil {
		return p, err
	}
	p.CompletedTrainings = make(map[uuid.UUID]bool, len(completed))
	for _, id := range completed {
		p.CompletedTrainings[id] = true
	}
	return p, nil
}

func keys(m map[uuid.UUID]bool) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// eligibleScope is the SQL form of grading.Eligible for listing.
func eligibleScope(db *gorm.DB, p grading.Profile) *gorm.DB {
	match := db.Model(&model.EligibilityModel{}).Select("1").
		Where("eligibility_creations.assessment_id = assessments.id").
		Where("(eligibility_creations.role IS NULL OR eligibility_creations.role = ?)", p.Role)
	if p.DepartmentID != nil {
		match = match.Where("(eligibility_creations.department_id IS NULL OR eligibility_creations.department_id = ?)", *p.DepartmentID)
	} else {
		match = match.Where("eligibility_creations.department_id IS NULL")
	}
	if groups := keys(p.GroupIDs); len(groups) > 0 {
		match = match.Where("(eligibility_creations.group_id IS NULL OR eligibility_creations.group_id IN ?)", groups)
	} else {
		match = match.Where("eligibility_creations.group_id IS NULL")
	}
	if done := keys(p.CompletedTrainings); len(done) > 0 {
		match = match.Where("(eligibility_creations.training_id IS NULL OR eligibility_creations.training_id IN ?)", done)
	} else {
		match = match.Where("eligibility_creations.training_id IS NULL")
	}
	criteriaExist := db.Model(&model.EligibilityModel{}).Select("1").Where("eligibility_creations.assessment_id = assessments.id")
	return db.Where(db.Where("NOT EXISTS (?)", criteriaExist).Or("EXISTS (?)", match))
}

func (s *AssessmentService) isEligible(ctx context.Context, actor helper.CurrentUser, assessmentID uuid.UUID) (bool, error) {
	var rows []model.EligibilityModel
	if err := s.DB.WithContext(ctx).Where("assessment_id = ?", assessmentID).Find(&rows).Error; err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return true, nil
	}
	p, err := s.profile(ctx, actor)
	if err != nil {
		return false, err
	}
	return grading.Eligible(criteria(rows), p), nil
}

func criteria(rows []model.EligibilityModel) []grading.Criterion {
	out := make([]grading.Criterion, len(rows))
	for i, r := range rows {
		out[i] = grading.Criterion{Role: r.Role, DepartmentID: r.DepartmentID, GroupID: r.GroupID, TrainingID: r.TrainingID}
	}
	return out
}

func (s *AssessmentService) Eligibility(ctx context.Context, actor helper.CurrentUser, identity string) ([]model.EligibilityModel, error) {
	a, err := s.loadManage(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	var rows []model.EligibilityModel
	err = s.DB.WithContext(ctx).Where("assessment_id = ?", a.ID).Order("created_on ASC").Find(&rows).Error
	return rows, err
}

func (s *AssessmentService) AddEligibility(ctx context.Context, actor helper.CurrentUser, identity string, req dto.EligibilityRequest) (*model.EligibilityModel, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	a, err := s.loadManage(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	row := &model.EligibilityModel{
		AssessmentID: a.ID,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		GroupID:      req.GroupID,
		TrainingID:   req.TrainingID,
		Audit:        helper.NewAudit(actor.ID),
	}
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		if helper.IsForeignKeyViolation(err) {
			return nil, helper.ErrFieldValidation("criteria", "department, group or training does not exist")
		}
		return nil, err
	}
	return row, nil
}

func (s *AssessmentService) RemoveEligibility(ctx context.Context, actor helper.CurrentUser, identity string, id uuid.UUID) error {
	a, err := s.loadManage(ctx, actor, identity)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Where("id = ? AND assessment_id = ?", id, a.ID).Delete(&model.EligibilityModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return helper.ErrNotFound("eligibility criterion not found")
	}
	return nil
}
