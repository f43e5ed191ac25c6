package model

import (
	"time"

	"github.com/google/uuid"
)

// ExamAction enumerates navigation actions a student can post while taking an exam.
type ExamAction string

const (
	ActionNext     ExamAction = "next"
	ActionPrevious ExamAction = "previous"
	ActionSubmit   ExamAction = "submit"
)

// ExamSession is a student's in-progress exam attempt, held in the session
// store and keyed by the owning user. QuestionIDs is the snapshot taken at
// start time: later question edits or deactivations do not affect it.
type ExamSession struct {
	UserID          int               `json:"user_id"`
	QuestionIDs     []uuid.UUID       `json:"question_ids"`
	Answers         map[uuid.UUID]int `json:"answers"`
	CurrentIndex    int               `json:"current_index"`
	StartTime       time.Time         `json:"start_time"`
	DurationMinutes int               `json:"duration_minutes"`
}

// Duration returns the exam time box.
func (s *ExamSession) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// Elapsed returns the wall-clock time since the session started.
func (s *ExamSession) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartTime)
}

// Remaining returns the time left on the clock, clamped at zero.
func (s *ExamSession) Remaining(now time.Time) time.Duration {
	remaining := s.Duration() - s.Elapsed(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the time box has run out. Elapsed wall-clock time
// is the sole expiry signal; there is no persisted paused state.
func (s *ExamSession) Expired(now time.Time) bool {
	return s.Elapsed(now) > s.Duration()
}

// SaveAnswerRequest is the payload for saving an answer and navigating.
// Answer is optional (navigation without answering) and deliberately not
// range-checked here: the scorer's equality check treats any out-of-range
// value as incorrect.
type SaveAnswerRequest struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	Answer     *int      `json:"answer"`
	Action     string    `json:"action" binding:"required"`
}
