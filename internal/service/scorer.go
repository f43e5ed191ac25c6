package service

import (
	"math"
	"time"

	"github.com/adiborse/online-examination-system/internal/model"
)

// Scorer converts a finished exam session plus its question snapshot into a
// Result. It is pure computation: persistence and session clearing belong to
// the caller.
type Scorer struct{}

// Score grades every question in the snapshot. An unanswered question is
// counted incorrect, never an error, and stored answers are compared by
// plain equality so out-of-range values simply never match. The percentage
// is rounded to two decimals and guarded against an empty snapshot. The
// submission type is auto exactly when the measured elapsed time exceeds the
// exam's time box, regardless of which action triggered the submission.
func (Scorer) Score(sess *model.ExamSession, questions []model.Question, endTime time.Time) *model.Result {
	elapsed := endTime.Sub(sess.StartTime)
	timeSpent := int(math.Round(elapsed.Seconds()))

	correct := 0
	outcomes := make([]model.ResultQuestion, 0, len(questions))
	for _, q := range questions {
		outcome := model.ResultQuestion{
			QuestionID:    q.ID,
			CorrectAnswer: q.CorrectAnswer,
		}
		if answer, ok := sess.Answers[q.ID]; ok {
			selected := answer
			outcome.SelectedAnswer = &selected
			outcome.IsCorrect = answer == q.CorrectAnswer
		}
		if outcome.IsCorrect {
			correct++
		}
		outcomes = append(outcomes, outcome)
	}

	total := len(questions)
	percentage := 0.0
	if total > 0 {
		percentage = math.Round(float64(correct)/float64(total)*100*100) / 100
	}

	// The decision uses the unrounded elapsed time: a fraction of a second
	// over the box is still over, even when the stored seconds round down.
	submission := model.SubmissionManual
	if elapsed.Seconds() > float64(sess.DurationMinutes*60) {
		submission = model.SubmissionAuto
	}

	return &model.Result{
		UserID:         sess.UserID,
		Questions:      outcomes,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Score:          correct,
		Percentage:     percentage,
		TimeSpentSecs:  timeSpent,
		ExamDuration:   sess.DurationMinutes,
		StartTime:      sess.StartTime,
		EndTime:        endTime,
		SubmissionType: submission,
	}
}
