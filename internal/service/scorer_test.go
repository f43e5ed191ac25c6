package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/adiborse/online-examination-system/internal/model"
	"github.com/adiborse/online-examination-system/internal/service"
)

func makeQuestions(n int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			ID:            uuid.New(),
			QuestionText:  "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % 4,
		}
	}
	return questions
}

func makeSession(userID int, questions []model.Question, start time.Time, durationMinutes int) *model.ExamSession {
	ids := make([]uuid.UUID, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return &model.ExamSession{
		UserID:          userID,
		QuestionIDs:     ids,
		Answers:         make(map[uuid.UUID]int),
		StartTime:       start,
		DurationMinutes: durationMinutes,
	}
}

func TestScorer_AllCorrect(t *testing.T) {
	questions := makeQuestions(5)
	start := time.Now().Add(-10 * time.Minute)
	sess := makeSession(1, questions, start, 60)
	for _, q := range questions {
		sess.Answers[q.ID] = q.CorrectAnswer
	}

	result := service.Scorer{}.Score(sess, questions, time.Now())

	require.Equal(t, 5, result.TotalQuestions)
	require.Equal(t, 5, result.CorrectAnswers)
	require.Equal(t, 5, result.Score)
	require.Equal(t, 100.0, result.Percentage)
	require.Equal(t, model.SubmissionManual, result.SubmissionType)
	require.Equal(t, "A+", result.Grade())
}

func TestScorer_PartiallyAnswered(t *testing.T) {
	questions := makeQuestions(2)
	start := time.Now().Add(-5 * time.Minute)
	sess := makeSession(1, questions, start, 60)
	sess.Answers[questions[0].ID] = questions[0].CorrectAnswer
	// questions[1] left unanswered: counted incorrect, never an error.

	result := service.Scorer{}.Score(sess, questions, time.Now())

	require.Equal(t, 1, result.CorrectAnswers)
	require.Equal(t, 50.0, result.Percentage)
	require.True(t, result.Questions[0].IsCorrect)
	require.False(t, result.Questions[1].IsCorrect)
	require.Nil(t, result.Questions[1].SelectedAnswer)
}

func TestScorer_OutOfRangeAnswerIsIncorrect(t *testing.T) {
	questions := makeQuestions(1)
	sess := makeSession(1, questions, time.Now().Add(-time.Minute), 60)
	sess.Answers[questions[0].ID] = 99

	result := service.Scorer{}.Score(sess, questions, time.Now())

	require.Equal(t, 0, result.CorrectAnswers)
	require.NotNil(t, result.Questions[0].SelectedAnswer)
	require.Equal(t, 99, *result.Questions[0].SelectedAnswer)
	require.False(t, result.Questions[0].IsCorrect)
}

func TestScorer_PercentageRounding(t *testing.T) {
	questions := makeQuestions(3)
	sess := makeSession(1, questions, time.Now().Add(-time.Minute), 60)
	sess.Answers[questions[0].ID] = questions[0].CorrectAnswer

	result := service.Scorer{}.Score(sess, questions, time.Now())

	// 1/3 rounds to 33.33, not 33.333333.
	require.Equal(t, 33.33, result.Percentage)
}

func TestScorer_EmptySnapshot(t *testing.T) {
	sess := makeSession(1, nil, time.Now().Add(-time.Minute), 60)

	result := service.Scorer{}.Score(sess, nil, time.Now())

	require.Equal(t, 0, result.TotalQuestions)
	require.Equal(t, 0.0, result.Percentage)
}

func TestScorer_AutoSubmissionPastTimeBox(t *testing.T) {
	questions := makeQuestions(1)
	start := time.Now().Add(-61 * time.Minute)
	sess := makeSession(1, questions, start, 60)

	result := service.Scorer{}.Score(sess, questions, time.Now())

	require.Equal(t, model.SubmissionAuto, result.SubmissionType)
	require.Greater(t, result.TimeSpentSecs, 60*60)
}

func TestScorer_AutoOnSubSecondOverrun(t *testing.T) {
	questions := makeQuestions(1)
	start := time.Now()
	sess := makeSession(1, questions, start, 60)

	// 400ms past the deadline rounds the stored seconds back down to the
	// box, but the submission is still auto.
	result := service.Scorer{}.Score(sess, questions, start.Add(60*time.Minute+400*time.Millisecond))

	require.Equal(t, model.SubmissionAuto, result.SubmissionType)
	require.Equal(t, 60*60, result.TimeSpentSecs)
}

func TestScorer_ManualAtExactBoundary(t *testing.T) {
	questions := makeQuestions(1)
	start := time.Now()
	sess := makeSession(1, questions, start, 60)

	// Submitted exactly at the deadline: elapsed == duration is still manual.
	result := service.Scorer{}.Score(sess, questions, start.Add(60*time.Minute))

	require.Equal(t, model.SubmissionManual, result.SubmissionType)
	require.Equal(t, 60*60, result.TimeSpentSecs)
}
