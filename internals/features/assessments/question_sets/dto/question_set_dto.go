package dto

import (
	"time"

	"github.com/google/uuid"

	"academykit_backend/internals/features/assessments/grading"
	model "academykit_backend/internals/features/assessments/question_sets/model"
)

type AddQuestionsRequest struct {
	QuestionPoolQuestionIDs []uuid.UUID `json:"question_pool_question_ids" validate:"required,min=1,max=500"`
}

// Normalize drops repeated ids, keeping the first position.
func (r *AddQuestionsRequest) Normalize() {
	seen := make(map[uuid.UUID]bool, len(r.QuestionPoolQuestionIDs))
	out := r.QuestionPoolQuestionIDs[:0]
	for _, id := range r.QuestionPoolQuestionIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	r.QuestionPoolQuestionIDs = out
}

type AnswerRequest struct {
	QuestionSetQuestionID uuid.UUID   `json:"question_set_question_id" validate:"required"`
	SelectedOptionIDs     []uuid.UUID `json:"selected_option_ids"`
}

type SubmitRequest struct {
	Answers []AnswerRequest `json:"answers" validate:"dive"`
}

func (r SubmitRequest) ToAnswers() []grading.Answer {
	out := make([]grading.Answer, len(r.Answers))
	for i, a := range r.Answers {
		out[i] = grading.Answer{QuestionID: a.QuestionSetQuestionID, SelectedOptionIDs: a.SelectedOptionIDs}
	}
	return out
}

type QuestionSetResponse struct {
	model.QuestionSetModel
	LessonID      *uuid.UUID `json:"lesson_id,omitempty"`
	CourseID      *uuid.UUID `json:"course_id,omitempty"`
	QuestionCount int64      `json:"question_count"`
	AttemptsUsed  int64      `json:"attempts_used"`
	AttemptsLeft  int64      `json:"attempts_left"`
	IsPassed      bool       `json:"is_passed"`
}

// ExamOption never carries is_correct.
type ExamOption struct {
	ID     uuid.UUID `json:"id"`
	Option string    `json:"option"`
}

type ExamQuestion struct {
	ID          uuid.UUID    `json:"id"` // question_set_question_id
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Description *string      `json:"description,omitempty"`
	Hints       *string      `json:"hints,omitempty"`
	Options     []ExamOption `json:"options"`
}

type StartExamResponse struct {
	SubmissionID uuid.UUID      `json:"submission_id"`
	StartTime    time.Time      `json:"start_time"`
	Duration     int            `json:"duration"`
	Deadline     *time.Time     `json:"deadline,omitempty"`
	Resumed      bool           `json:"resumed"`
	Questions    []ExamQuestion `json:"questions"`
}

// TeacherQuestion is the editing view of a set question, options included with answers.
type TeacherQuestion struct {
	ID                     uuid.UUID        `json:"id"`
	QuestionID             uuid.UUID        `json:"question_id"`
	QuestionPoolQuestionID uuid.UUID        `json:"question_pool_question_id"`
	Order                  int              `json:"order"`
	Name                   string           `json:"name"`
	Type                   string           `json:"type"`
	Options                []SnapshotOption `json:"options"`
}

// Snapshot freezes a question as it was graded.
type Snapshot struct {
	Name    string           `json:"name"`
	Type    string           `json:"type"`
	Options []SnapshotOption `json:"options"`
}

type SnapshotOption struct {
	ID        uuid.UUID `json:"id"`
	Option    string    `json:"option"`
	IsCorrect bool      `json:"is_correct"`
}

type SubmitResponse struct {
	SubmissionID      uuid.UUID `json:"submission_id"`
	IsSubmissionError bool      `json:"is_submission_error"`
	SubmissionError   string    `json:"submission_error,omitempty"`
	TotalMark         float64   `json:"total_mark"`
	PositiveMark      float64   `json:"positive_mark"`
	NegativeMark      float64   `json:"negative_mark"`
	ObtainedMark      float64   `json:"obtained_mark"`
	Percentage        float64   `json:"percentage"`
	IsPassed          bool      `json:"is_passed"`
}

func FromGrade(submissionID uuid.UUID, r grading.Result) SubmitResponse {
	return SubmitResponse{
		SubmissionID: submissionID,
		TotalMark:    r.TotalMark,
		PositiveMark: r.PositiveMark,
		NegativeMark: r.NegativeMark,
		ObtainedMark: r.ObtainedMark,
		Percentage:   r.Percentage,
		IsPassed:     r.IsPassed,
	}
}

// ResultRow is a user's best attempt.
type ResultRow struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ObtainedMark float64   `json:"obtained_mark"`
	TotalMark    float64   `json:"total_mark"`
	IsPassed     bool      `json:"is_passed"`
	Attempts     int64     `json:"attempts"`
	SubmittedOn  time.Time `json:"submitted_on"`
}

type AttemptRow struct {
	SubmissionID      uuid.UUID  `json:"submission_id"`
	StartTime         time.Time  `json:"start_time"`
	EndTime           *time.Time `json:"end_time,omitempty"`
	IsSubmissionError bool       `json:"is_submission_error"`
	SubmissionError   *string    `json:"submission_error,omitempty"`
	TotalMark         *float64   `json:"total_mark,omitempty"`
	ObtainedMark      *float64   `json:"obtained_mark,omitempty"`
	IsPassed          *bool      `json:"is_passed,omitempty"`
}

type AnswerDetail struct {
	QuestionSetQuestionID uuid.UUID   `json:"question_set_question_id"`
	SelectedOptionIDs     []uuid.UUID `json:"selected_option_ids"`
	IsCorrect             bool        `json:"is_correct"`
	Question              *Snapshot   `json:"question,omitempty"`
}

type SubmissionDetail struct {
	AttemptRow
	Answers []AnswerDetail `json:"answers"`
}
