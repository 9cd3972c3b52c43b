package service

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dto "academykit_backend/internals/features/assessments/question_sets/dto"
	model "academykit_backend/internals/features/assessments/question_sets/model"
	helper "academykit_backend/internals/helpers"
	"academykit_backend/internals/helpers/export"
)

var resultSortColumns = map[string]string{
	"name":          "name",
	"obtained_mark": "obtained_mark",
	"submitted_on":  "submitted_on",
}

// bestResults keeps one row per user: highest obtained mark, earliest on ties.
func (s *QuestionSetService) bestResults(ctx context.Context, setID uuid.UUID) *gorm.DB {
	best := s.DB.Table("question_set_results r").
		Select(`DISTINCT ON (r.user_id) r.user_id, r.obtained_mark, r.total_mark, r.is_passed, r.created_on AS submitted_on`).
		Where("r.question_set_id = ?", setID).
		Order("r.user_id, r.obtained_mark DESC, r.created_on ASC")
	attempts := s.DB.Table("question_set_submissions").Select("user_id, COUNT(*) AS attempts").
		Where("question_set_id = ?", setID).Group("user_id")
	return s.DB.WithContext(ctx).Table("(?) AS b", best).
		Select(`b.user_id, TRIM(u.first_name || ' ' || u.last_name) AS name, u.email,
			b.obtained_mark, b.total_mark, b.is_passed, b.submitted_on, COALESCE(a.attempts, 0) AS attempts`).
		Joins("JOIN users u ON u.id = b.user_id").
		Joins("LEFT JOIN (?) AS a ON a.user_id = b.user_id", attempts)
}

// Results lists each user's best result for course teachers and admins.
func (s *QuestionSetService) Results(ctx context.Context, actor helper.CurrentUser, identity string, p helper.Params) ([]dto.ResultRow, helper.Pagination, error) {
	sa, err := s.resolveManage(ctx, actor, identity)
	if err != nil {
		return nil, helper.Pagination{}, err
	}
	q := s.bestResults(ctx, sa.Set.ID)
	if like := p.SearchLike(); like != "" {
		q = q.Where("(LOWER(u.first_name || ' ' || u.last_name) LIKE ? OR LOWER(u.email) LIKE ?)", like, like)
	}
	var rows []dto.ResultRow
	pg, err := helper.Paginate(q, p, p.OrderClause(resultSortColumns, "submitted_on"), &rows)
	return rows, pg, err
}

// Attempts lists every attempt of one user. Trainees may only read their own.
func (s *QuestionSetService) Attempts(ctx context.Context, actor helper.CurrentUser, identity string, userID uuid.UUID) ([]dto.AttemptRow, error) {
	sa, err := s.resolve(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	if userID != actor.ID && !sa.Course.CanManage() {
		return nil, helper.ErrForbidden("you can only read your own results")
	}
	var rows []dto.AttemptRow
	err = s.DB.WithContext(ctx).Table("question_set_submissions s").
		Select(`s.id AS submission_id, s.start_time, s.end_time, s.is_submission_error, s.submission_error,
			r.total_mark, r.obtained_mark, r.is_passed`).
		Joins("LEFT JOIN question_set_results r ON r.question_set_submission_id = s.id").
		Where("s.question_set_id = ? AND s.user_id = ?", sa.Set.ID, userID).
		Order("s.start_time DESC").Scan(&rows).Error
	return rows, err
}

// Submission shows one graded attempt with the answers and the question as it was graded.
func (s *QuestionSetService) Submission(ctx context.Context, actor helper.CurrentUser, identity string, submissionID uuid.UUID) (*dto.SubmissionDetail, error) {
	sa, err := s.resolve(ctx, actor, identity)
	if err != nil {
		return nil, err
	}
	var sub model.QuestionSetSubmissionModel
	if err := s.DB.WithContext(ctx).Where("id = ? AND question_set_id = ?", submissionID, sa.Set.ID).Take(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.ErrNotFound("submission not found")
		}
		return nil, err
	}
	if sub.UserID != actor.ID && !sa.Course.CanManage() {
		return nil, helper.ErrForbidden("this submission belongs to another user")
	}
	out := &dto.SubmissionDetail{
		AttemptRow: dto.AttemptRow{
			SubmissionID: sub.ID, StartTime: sub.StartTime, EndTime: sub.EndTime,
			IsSubmissionError: sub.IsSubmissionError, SubmissionError: sub.SubmissionError,
		},
		Answers: []dto.AnswerDetail{},
	}
	var res model.QuestionSetResultModel
	found := s.DB.WithContext(ctx).Where("question_set_submission_id = ?", sub.ID).Limit(1).Find(&res)
	if found.Error != nil {
		return nil, found.Error
	}
	if found.RowsAffected > 0 {
		out.TotalMark, out.ObtainedMark, out.IsPassed = &res.TotalMark, &res.ObtainedMark, &res.IsPassed
	}
	var answers []model.QuestionSetSubmissionAnswerModel
	if err := s.DB.WithContext(ctx).Where("question_set_submission_id = ?", sub.ID).Find(&answers).Error; err != nil {
		return nil, err
	}
	for _, a := range answers {
		d := dto.AnswerDetail{QuestionSetQuestionID: a.QuestionSetQuestionID, IsCorrect: a.IsCorrect, SelectedOptionIDs: []uuid.UUID{}}
		if len(a.SelectedOptionIDs) > 0 {
			if err := sonic.Unmarshal(a.SelectedOptionIDs, &d.SelectedOptionIDs); err != nil {
				return nil, errors.Wrap(err, "decode selected options")
			}
		}
		if len(a.Snapshot) > 0 {
			var snap dto.Snapshot
			if sonic.Unmarshal(a.Snapshot, &snap) == nil {
				d.Question = &snap
			}
		}
		out.Answers = append(out.Answers, d)
	}
	return out, nil
}

// ResultsTable is the CSV/XLSX export of best results.
func (s *QuestionSetService) ResultsTable(ctx context.Context, actor helper.CurrentUser, identity string) (export.Table, string, error) {
	sa, err := s.resolveManage(ctx, actor, identity)
	if err != nil {
		return export.Table{}, "", err
	}
	var rows []dto.ResultRow
	if err := s.bestResults(ctx, sa.Set.ID).Order("name ASC").Scan(&rows).Error; err != nil {
		return export.Table{}, "", err
	}
	t := export.Table{
		Sheet:   "Results",
		Headers: []string{"Name", "Email", "Obtained Mark", "Total Mark", "Passed", "Attempts", "Submitted On"},
	}
	for _, r := range rows {
		submitted := r.SubmittedOn
		passed := "No"
		if r.IsPassed {
			passed = "Yes"
		}
		t.Append(r.Name, r.Email, fmt.Sprintf("%.2f", r.ObtainedMark), fmt.Sprintf("%.2f", r.TotalMark),
			passed, fmt.Sprint(r.Attempts), export.FormatTime(&submitted))
	}
	return t, sa.Set.Slug + "-results", nil
}
