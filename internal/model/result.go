package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SubmissionType records whether a result came from an explicit submit or
// from the time box expiring.
type SubmissionType string

const (
	SubmissionManual SubmissionType = "manual"
	SubmissionAuto   SubmissionType = "auto"
)

// ResultQuestion is the per-question outcome snapshot stored inside a Result.
// SelectedAnswer is nil when the question was left unanswered.
type ResultQuestion struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedAnswer *int      `json:"selected_answer"`
	CorrectAnswer  int       `json:"correct_answer"`
	IsCorrect      bool      `json:"is_correct"`
}

// Result is the durable, immutable record of a completed exam attempt.
// Only the user who took the exam may read it.
type Result struct {
	ID             uuid.UUID        `json:"id"`
	UserID         int              `json:"user_id"`
	Questions      []ResultQuestion `json:"questions"`
	TotalQuestions int              `json:"total_questions"`
	CorrectAnswers int              `json:"correct_answers"`
	Score          int              `json:"score"`
	Percentage     float64          `json:"percentage"`
	TimeSpentSecs  int              `json:"time_spent"`
	ExamDuration   int              `json:"exam_duration"`
	StartTime      time.Time        `json:"start_time"`
	EndTime        time.Time        `json:"end_time"`
	SubmissionType SubmissionType   `json:"submission_type"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Grade derives the letter grade from the stored percentage. It is
// presentation-only and recomputable, never persisted as a primary fact.
func (r Result) Grade() string {
	switch {
	case r.Percentage >= 90:
		return "A+"
	case r.Percentage >= 80:
		return "A"
	case r.Percentage >= 70:
		return "B"
	case r.Percentage >= 60:
		return "C"
	case r.Percentage >= 50:
		return "D"
	default:
		return "F"
	}
}

// MarshalJSON includes the derived grade alongside the stored fields.
func (r Result) MarshalJSON() ([]byte, error) {
	type alias Result
	return json.Marshal(struct {
		alias
		Grade string `json:"grade"`
	}{alias(r), r.Grade()})
}
