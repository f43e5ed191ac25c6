package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/adiborse/online-examination-system/internal/model"
	"github.com/adiborse/online-examination-system/internal/repository"
)

// Exam flow errors. ErrInvalidSession covers every "go back to the
// dashboard" case: missing session, foreign owner, out-of-range index.
var (
	ErrInvalidSession       = errors.New("invalid exam session")
	ErrNoQuestionsAvailable = errors.New("no active questions available")
	ErrExamExpired          = errors.New("exam time has expired")
	ErrResultNotFound       = errors.New("result not found")
)

// QuestionSource provides question reads for the exam flow.
type QuestionSource interface {
	ListActive(ctx context.Context) ([]model.Question, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error)
}

// ResultStore persists and fetches completed exam results.
type ResultStore interface {
	Create(ctx context.Context, res *model.Result) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Result, error)
}

// ExamService drives a student through the fixed question sequence:
// starting (or resuming) an attempt, rendering questions, persisting
// answers and navigation, and handing completed sessions to the scorer.
// Expiry is discovered lazily on the next request; no background task
// ever submits a session on its own.
type ExamService struct {
	questions QuestionSource
	results   ResultStore
	sessions  *repository.ExamSessionStore
	scorer    Scorer
	duration  int
	log       zerolog.Logger
}

// NewExamService creates a new ExamService. durationMinutes is the fixed
// time box applied to every attempt started from now on.
func NewExamService(
	questions QuestionSource,
	results ResultStore,
	sessions *repository.ExamSessionStore,
	durationMinutes int,
	log zerolog.Logger,
) *ExamService {
	return &ExamService{
		questions: questions,
		results:   results,
		sessions:  sessions,
		duration:  durationMinutes,
		log:       log.With().Str("component", "exam_service").Logger(),
	}
}

// StartExamResult tells the client which question to show first.
type StartExamResult struct {
	Index          int  `json:"index"`
	TotalQuestions int  `json:"total_questions"`
	Resumed        bool `json:"resumed"`
}

// QuestionView is everything the client needs to render one question.
type QuestionView struct {
	Question       model.QuestionForStudent `json:"question"`
	Index          int                      `json:"index"`
	TotalQuestions int                      `json:"total_questions"`
	TimeRemaining  int                      `json:"time_remaining"`
	SelectedAnswer *int                     `json:"selected_answer"`
	IsLast         bool                     `json:"is_last"`
}

// Navigation is the outcome of a save-answer call: either the next question
// index to render or a signal to submit.
type Navigation struct {
	Index  int  `json:"index"`
	Submit bool `json:"submit"`
}

// ExamStatus is the polling payload for the client-side timer.
type ExamStatus struct {
	TimeRemaining int  `json:"time_remaining"`
	IsExpired     bool `json:"is_expired"`
}

// StartExam begins a new attempt for the user, or resumes the existing one
// at its current position. Restart protection is deliberate: two starts in
// a row yield the same snapshot and the same answers, never a second
// session. A session past its time box is still resumed here; the question
// or submit path discovers the expiry on the very next call.
func (s *ExamService) StartExam(ctx context.Context, userID int) (*StartExamResult, error) {
	sess, err := s.loadSession(ctx, userID)
	if err != nil && !errors.Is(err, ErrInvalidSession) {
		return nil, err
	}
	if sess != nil {
		return &StartExamResult{
			Index:          sess.CurrentIndex,
			TotalQuestions: len(sess.QuestionIDs),
			Resumed:        true,
		}, nil
	}

	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	ids := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	sess = &model.ExamSession{
		UserID:          userID,
		QuestionIDs:     ids,
		Answers:         make(map[uuid.UUID]int),
		CurrentIndex:    0,
		StartTime:       time.Now(),
		DurationMinutes: s.duration,
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("user_id", userID).
		Int("questions", len(ids)).
		Int("duration_minutes", s.duration).
		Msg("Exam started")

	return &StartExamResult{Index: 0, TotalQuestions: len(ids)}, nil
}

// GetQuestion renders the question at index for an in-progress attempt and
// records the position as the session's resume point. A session past its
// time box returns ErrExamExpired: the caller must treat that as "submit
// now" instead of rendering.
func (s *ExamService) GetQuestion(ctx context.Context, userID, index int) (*QuestionView, error) {
	sess, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(sess.QuestionIDs) {
		return nil, ErrInvalidSession
	}

	if sess.Expired(time.Now()) {
		return nil, ErrExamExpired
	}

	question, err := s.questions.GetByID(ctx, sess.QuestionIDs[index])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	sess.CurrentIndex = index
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}

	view := &QuestionView{
		Question:       question.ForStudent(),
		Index:          index,
		TotalQuestions: len(sess.QuestionIDs),
		TimeRemaining:  remainingMinutes(sess, time.Now()),
		IsLast:         index == len(sess.QuestionIDs)-1,
	}
	if answer, ok := sess.Answers[question.ID]; ok {
		selected := answer
		view.SelectedAnswer = &selected
	}
	return view, nil
}

// SaveAnswer upserts the posted answer (if any) and resolves the navigation
// target. next/previous move relative to the posted question's position in
// the snapshot and clamp silently at the sequence bounds; submit signals an
// immediate hand-off to the scorer. An expired session short-circuits to
// the submit signal without recording the answer.
func (s *ExamService) SaveAnswer(ctx context.Context, userID int, req model.SaveAnswerRequest) (*Navigation, error) {
	sess, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	if sess.Expired(time.Now()) {
		return &Navigation{Submit: true}, nil
	}

	if req.Answer != nil {
		sess.Answers[req.QuestionID] = *req.Answer
	}

	if model.ExamAction(req.Action) == model.ActionSubmit {
		if err := s.sessions.Save(ctx, sess); err != nil {
			return nil, err
		}
		return &Navigation{Submit: true}, nil
	}

	current := indexOf(sess.QuestionIDs, req.QuestionID)
	next := current
	switch model.ExamAction(req.Action) {
	case model.ActionNext:
		next = min(current+1, len(sess.QuestionIDs)-1)
	case model.ActionPrevious:
		next = max(current-1, 0)
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &Navigation{Index: next}, nil
}

// GetStatus reports the remaining time without mutating the session. It
// feeds the client-side countdown and is never authoritative for
// submission: that always happens on an explicit request.
func (s *ExamService) GetStatus(ctx context.Context, userID int) (*ExamStatus, error) {
	sess, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &ExamStatus{
		TimeRemaining: remainingMinutes(sess, now),
		IsExpired:     sess.Remaining(now) <= 0,
	}, nil
}

// Submit scores the attempt and persists the result, then clears the
// session. On a persistence failure the session is left intact so the user
// can retry; a partially scored result is never exposed.
func (s *ExamService) Submit(ctx context.Context, userID int) (*model.Result, error) {
	sess, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	endTime := time.Now()

	// Re-fetch by id, not by active flag: the snapshot stays valid even if
	// questions were deactivated mid-exam.
	questions, err := s.questions.ListByIDs(ctx, sess.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot questions: %w", err)
	}

	result := s.scorer.Score(sess, questions, endTime)

	if err := s.results.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("persist result: %w", err)
	}

	// The result is durable from here on. A failed delete only leaves a
	// stale session behind, which the TTL will clear.
	if err := s.sessions.Delete(ctx, userID); err != nil {
		s.log.Error().Err(err).Int("user_id", userID).Msg("Failed to clear submitted session")
	}

	s.log.Info().
		Int("user_id", userID).
		Str("result_id", result.ID.String()).
		Float64("percentage", result.Percentage).
		Str("submission_type", string(result.SubmissionType)).
		Msg("Exam submitted")

	return result, nil
}

// GetResult fetches a result for its owner. Any other identity gets
// ErrResultNotFound, never another user's data.
func (s *ExamService) GetResult(ctx context.Context, userID int, resultID uuid.UUID) (*model.Result, error) {
	result, err := s.results.GetByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("get result: %w", err)
	}
	if result.UserID != userID {
		return nil, ErrResultNotFound
	}
	return result, nil
}

func (s *ExamService) loadSession(ctx context.Context, userID int) (*model.ExamSession, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.UserID != userID {
		return nil, ErrInvalidSession
	}
	return sess, nil
}

// remainingMinutes reports the time left as whole minutes, ceiling, so the
// displayed countdown never claims more precision than the lazy expiry
// check provides.
func remainingMinutes(sess *model.ExamSession, now time.Time) int {
	return int(math.Ceil(sess.Remaining(now).Minutes()))
}

func indexOf(ids []uuid.UUID, id uuid.UUID) int {
	for i, candidate := range ids {
		if candidate == id {
			return i
		}
	}
	return -1
}
