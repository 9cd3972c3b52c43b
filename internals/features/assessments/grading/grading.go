// Package grading scores choice-based answer sheets. It has no database access.
package grading

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"academykit_backend/internals/constants"
	helper "academykit_backend/internals/helpers"
)

// ErrTimeExceeded is stored on submissions closed after their window.
const ErrTimeExceeded = "submission time exceeded"

type Option struct {
	ID        uuid.UUID
	IsCorrect bool
}

type Question struct {
	ID      uuid.UUID
	Type    string
	Mark    float64 // 0 means Scheme.MarkPerQuestion
	Options []Option
}

type Answer struct {
	QuestionID        uuid.UUID
	SelectedOptionIDs []uuid.UUID
}

type Scheme struct {
	MarkPerQuestion  float64
	NegativeMarking  float64
	PassingWeightage float64
}

type QuestionResult struct {
	QuestionID uuid.UUID
	Answered   bool
	IsCorrect  bool
	Mark       float64
}

type Result struct {
	TotalMark    float64
	PositiveMark float64
	NegativeMark float64
	ObtainedMark float64
	Percentage   float64
	IsPassed     bool
	Questions    []QuestionResult
}

// Grade scores answers against questions. Questions without an answer count as unanswered.
func Grade(questions []Question, answers []Answer, scheme Scheme) (Result, error) {
	byID := make(map[uuid.UUID]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	selected := make(map[uuid.UUID][]uuid.UUID, len(answers))
	for i, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return Result{}, helper.ErrFieldValidation(fmt.Sprintf("answers[%d].question_id", i), "unknown question")
		}
		if _, dup := selected[a.QuestionID]; dup {
			return Result{}, helper.ErrFieldValidation(fmt.Sprintf("answers[%d].question_id", i), "question answered more than once")
		}
		ids := dedupe(a.SelectedOptionIDs)
		if q.Type == constants.QuestionSingleChoice && len(ids) > 1 {
			return Result{}, helper.ErrFieldValidation(fmt.Sprintf("answers[%d].selected_option_ids", i), "single choice question accepts one option")
		}
		for _, id := range ids {
			if !hasOption(q, id) {
				return Result{}, helper.ErrFieldValidation(fmt.Sprintf("answers[%d].selected_option_ids", i), "unknown option "+id.String())
			}
		}
		selected[a.QuestionID] = ids
	}

	var res Result
	wrong := 0
	for _, q := range questions {
		mark := q.Mark
		if mark <= 0 {
			mark = scheme.MarkPerQuestion
		}
		res.TotalMark += mark

		qr := QuestionResult{QuestionID: q.ID}
		ids := selected[q.ID]
		if len(ids) > 0 {
			qr.Answered = true
			if sameSet(ids, correctIDs(q)) {
				qr.IsCorrect = true
				qr.Mark = mark
				res.PositiveMark += mark
			} else {
				wrong++
			}
		}
		res.Questions = append(res.Questions, qr)
	}

	res.NegativeMark = scheme.NegativeMarking * float64(wrong)
	res.ObtainedMark = math.Max(0, res.PositiveMark-res.NegativeMark)
	if res.TotalMark > 0 {
		res.Percentage = res.ObtainedMark / res.TotalMark * 100
		res.IsPassed = res.Percentage >= scheme.PassingWeightage
	}
	return res, nil
}

// IsCorrectSelection compares a selection with the correct options by set equality.
func IsCorrectSelection(q Question, selected []uuid.UUID) bool {
	ids := dedupe(selected)
	return len(ids) > 0 && sameSet(ids, correctIDs(q))
}

func correctIDs(q Question) []uuid.UUID {
	var out []uuid.UUID
	for _, o := range q.Options {
		if o.IsCorrect {
			out = append(out, o.ID)
		}
	}
	return out
}

func hasOption(q Question, id uuid.UUID) bool {
	for _, o := range q.Options {
		if o.ID == id {
			return true
		}
	}
	return false
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func sameSet(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[uuid.UUID]struct{}, len(b))
	for _, id := range b {
		set[id] = struct{}{}
	}
	for _, id := range a {
		if _, ok := set[id]; !ok {
			return false
		}
	}
	return true
}
