package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "academykit_backend/internals/features/assessments/assessments/dto"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/export"
)

var resultSortColumns = map[string]string{
	"name":         "name",
	"percentage":   "percentage",
	"submitted_on": "submitted_on",
}

// bestResults keeps one row per user: highest percentage, earliest on ties.
func (s *AssessmentService) bestResults(ctx context.Context, assessmentID uuid.UUID) *gorm.DB {
	best := s.DB.Table("assessment_results r").
		Select(`DISTINCT ON (r.user_id) r.user_id, r.obtained_mark, r.total_mark, r.percentage, r.is_passed, r.created_on AS submitted_on`).
		Where("r.assessment_id = ?", assessmentID).
		Order("r.user_id, r.percentage DESC, r.created_on ASC")
	attempts := s.DB.Table("assessment_submissions").Select("user_id, COUNT(*) AS attempts").
		Where("assessment_id = ?", assessmentID).Group("user_id")
	return s.DB.WithContext(ctx).Table("(?) AS b", best).
		Select(`b.user_id, TRIM(u.first_name || ' ' || u.last_name) AS name, u.email,
			b.obtained_mark, b.total_mark, b.percentage, b.is_passed, b.submitted_on, COALESCE(a.attempts, 0) AS attempts`).
		Joins("JOIN users u ON u.id = b.user_id").
		Joins("LEFT JOIN (?) AS a ON a.user_id = b.user_id", attempts)
}

func (s *AssessmentService) Results(ctx context.Context, actor helper.CurrentUser, identity string, p helper.Params) ([]dto.ResultRow, helper.Pagination, error) {
	a, err := s.loadManage(ctx, actor, identity)
	if err != nil {
		return nil, helper.Pagination{}, err
	}
	q := s.bestResults(ctx, a.ID)
	if like := p.SearchLike(); like != "" {
		q = q.Where("(LOWER(u.first_name || ' ' || u.last_name) LIKE ? OR LOWER(u.email) LIKE ?)", like, like)
	}
	var rows []dto.ResultRow
	pg, err := helper.Paginate(q, p, p.OrderClause(resultSortColumns, "submitted_on"), &rows)
	return rows, pg, err
}

// MyAttempts lists the caller's own attempts, newest first.
func (s *AssessmentService) MyAttempts(ctx context.Context, actor helper.CurrentUser, identity string) ([]dto.AttemptRow, error) {
	a, _, err := s.loadVisible(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	return s.attempts(ctx, a.ID, actor.ID)
}

// UserAttempts is the author/admin view of one user's attempts.
func (s *AssessmentService) UserAttempts(ctx context.Context, actor helper.CurrentUser, identity string, userID uuid.UUID) ([]dto.AttemptRow, error) {
	a, err := s.loadManage(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	return s.attempts(ctx, a.ID, userID)
}

func (s *AssessmentService) attempts(ctx context.Context, assessmentID, userID uuid.UUID) ([]dto.AttemptRow, error) {
	var rows []dto.AttemptRow
	err := s.DB.WithContext(ctx).Table("assessment_submissions s").
		Select(`s.id AS submission_id, s.start_time, s.end_time, s.is_submission_error, s.submission_error,
			r.total_mark, r.obtained_mark, r.percentage, r.is_passed`).
		Joins("LEFT JOIN assessment_results r ON r.assessment_submission_id = s.id").
		Where("s.assessment_id = ? AND s.user_id = ?", assessmentID, userID).
		Order("s.start_time DESC").Scan(&rows).Error
	return rows, err
}

// ResultsTable is the CSV/XLSX export of best results.
func (s *AssessmentService) ResultsTable(ctx context.Context, actor helper.CurrentUser, identity string) (export.Table, string, error) {
	a, err := s.loadManage(ctx, actor, identity)
	if err != nil {
		return export.Table{}, "", err
	}
	var rows []dto.ResultRow
	if err := s.bestResults(ctx, a.ID).Order("name ASC").Scan(&rows).Error; err != nil {
		return export.Table{}, "", err
	}
	t := export.Table{
		Sheet:   "Results",
		Headers: []string{"Name", "Email", "Obtained Mark", "Total Mark", "Percentage", "Passed", "Attempts", "Submitted On"},
	}
	for _, r := range rows {
		submitted := r.SubmittedOn
		passed := "No"
		if r.IsPassed {
			passed = "Yes"
		}
		t.Append(r.Name, r.Email, fmt.Sprintf("%.2f", r.ObtainedMark), fmt.Sprintf("%.2f", r.TotalMark),
			fmt.Sprintf("%.2f", r.Percentage), passed, fmt.Sprint(r.Attempts), export.FormatTime(&submitted))
	}
	return t, a.Slug + "-results", nil
}
