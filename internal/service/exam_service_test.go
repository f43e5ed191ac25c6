package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/adiborse/online-examination-system/internal/model"
	"github.com/adiborse/online-examination-system/internal/repository"
	"github.com/adiborse/online-examination-system/internal/service"
)

// fakeQuestionSource serves a fixed question bank from memory.
type fakeQuestionSource struct {
	active []model.Question
	byID   map[uuid.UUID]model.Question
}

func newFakeQuestionSource(questions []model.Question) *fakeQuestionSource {
	src := &fakeQuestionSource{byID: make(map[uuid.UUID]model.Question)}
	for _, q := range questions {
		if q.IsActive {
			src.active = append(src.active, q)
		}
		src.byID[q.ID] = q
	}
	return src
}

func (f *fakeQuestionSource) ListActive(_ context.Context) ([]model.Question, error) {
	return f.active, nil
}

func (f *fakeQuestionSource) GetByID(_ context.Context, id uuid.UUID) (*model.Question, error) {
	q, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &q, nil
}

func (f *fakeQuestionSource) ListByIDs(_ context.Context, ids []uuid.UUID) ([]model.Question, error) {
	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := f.byID[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

// fakeResultStore keeps results in memory and can simulate write failures.
type fakeResultStore struct {
	results    map[uuid.UUID]*model.Result
	failCreate bool
}

func newFakeResultStore() *fakeResultStore {
	return &fakeResultStore{results: make(map[uuid.UUID]*model.Result)}
}

func (f *fakeResultStore) Create(_ context.Context, res *model.Result) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	res.ID = uuid.New()
	res.CreatedAt = time.Now()
	f.results[res.ID] = res
	return nil
}

func (f *fakeResultStore) GetByID(_ context.Context, id uuid.UUID) (*model.Result, error) {
	res, ok := f.results[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return res, nil
}

type examFixture struct {
	svc      *service.ExamService
	sessions *repository.ExamSessionStore
	source   *fakeQuestionSource
	results  *fakeResultStore
	bank     []model.Question
}

func newExamFixture(t *testing.T, questionCount int) *examFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	bank := make([]model.Question, questionCount)
	for i := range bank {
		bank[i] = model.Question{
			ID:            uuid.New(),
			QuestionText:  "q",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: i % 4,
			IsActive:      true,
		}
	}

	sessions := repository.NewExamSessionStore(rdb, 30*time.Minute)
	source := newFakeQuestionSource(bank)
	results := newFakeResultStore()
	svc := service.NewExamService(source, results, sessions, 60, zerolog.Nop())

	return &examFixture{svc: svc, sessions: sessions, source: source, results: results, bank: bank}
}

// ageSession rewinds the stored session's start time, simulating an attempt
// started in the past.
func (f *examFixture) ageSession(t *testing.T, userID int, age time.Duration) {
	t.Helper()
	ctx := context.Background()
	sess, err := f.sessions.Get(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	sess.StartTime = sess.StartTime.Add(-age)
	require.NoError(t, f.sessions.Save(ctx, sess))
}

func TestExamService_StartExam(t *testing.T) {
	f := newExamFixture(t, 5)
	ctx := context.Background()

	start, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 0, start.Index)
	require.Equal(t, 5, start.TotalQuestions)
	require.False(t, start.Resumed)

	sess, err := f.sessions.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sess.QuestionIDs, 5)
	require.Empty(t, sess.Answers)
}

func TestExamService_StartExamResumes(t *testing.T) {
	f := newExamFixture(t, 5)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)

	// Answer and navigate to question 2, then "start" again.
	_, err = f.svc.SaveAnswer(ctx, 1, model.SaveAnswerRequest{
		QuestionID: f.bank[0].ID,
		Answer:     intPtr(1),
		Action:     "next",
	})
	require.NoError(t, err)
	_, err = f.svc.GetQuestion(ctx, 1, 2)
	require.NoError(t, err)

	start, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)
	require.True(t, start.Resumed)
	require.Equal(t, 2, start.Index)

	sess, err := f.sessions.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sess.Answers, 1, "restart must not touch recorded answers")
}

func TestExamService_StartExamNoQuestions(t *testing.T) {
	f := newExamFixture(t, 0)

	_, err := f.svc.StartExam(context.Background(), 1)
	require.ErrorIs(t, err, service.ErrNoQuestionsAvailable)
}

func TestExamService_GetQuestion(t *testing.T) {
	f := newExamFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)

	view, err := f.svc.GetQuestion(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, f.bank[1].ID, view.Question.ID)
	require.Equal(t, 1, view.Index)
	require.Equal(t, 3, view.TotalQuestions)
	require.False(t, view.IsLast)
	require.Nil(t, view.SelectedAnswer)
	require.Equal(t, 60, view.TimeRemaining)

	last, err := f.svc.GetQuestion(ctx, 1, 2)
	require.NoError(t, err)
	require.True(t, last.IsLast)

	// The rendered position becomes the resume point.
	sess, err := f.sessions.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, sess.CurrentIndex)
}

func TestExamService_GetQuestionOutOfRange(t *testing.T) {
	f := newExamFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.GetQuestion(ctx, 1, -1)
	require.ErrorIs(t, err, service.ErrInvalidSession)

	_, err = f.svc.GetQuestion(ctx, 1, 3)
	require.ErrorIs(t, err, service.ErrInvalidSession)
}

func TestExamService_GetQuestionWithoutSession(t *testing.T) {
	f := newExamFixture(t, 3)

	_, err := f.svc.GetQuestion(context.Background(), 1, 0)
	require.ErrorIs(t, err, service.ErrInvalidSession)
}

func TestExamService_GetQuestionExpired(t *testing.T) {
	f := newExamFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)
	f.ageSession(t, 1, 61*time.Minute)

	_, err = f.svc.GetQuestion(ctx, 1, 0)
	require.ErrorIs(t, err, service.ErrExamExpired)
}

func TestExamService_GetQuestionShowsRecordedAnswer(t *testing.T) {
	f := newExamFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.SaveAnswer(ctx, 1, model.SaveAnswerRequest{
		QuestionID: f.bank[0].ID,
		Answer:     intPtr(2),
		Action:     "next",
	})
	require.NoError(t, err)

	view, err := f.svc.GetQuestion(ctx, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, view.SelectedAnswer)
	require.Equal(t, 2, *view.SelectedAnswer)
}

func TestExamService_SaveAnswerNavigation(t *testing.T) {
	f := newExamFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)

	// next from the middle moves forward.
	nav, err := f.svc.SaveAnswer(ctx, 1, model.SaveAnswerRequest{
		QuestionID: f.bank[1].ID,
		Answer:     intPtr(0),
		Action:     "next",
	})
	require.NoError(t, err)
	require.Equal(t, 2, nav.Index)
	require.False(t, nav.Submit)

	// next at the end clamps in place.
	nav, err = f.svc.SaveAnswer(ctx, 1, model.SaveAnswerRequest{
		QuestionID: f.bank[2].ID,
		Action:     "next",
	})
	require.NoError(t, err)
	require.Equal(t, 2, nav.Index)

	// previous at the start clamps in place.
	nav, err = f.svc.SaveAnswer(ctx, 1, model.SaveAnswerRequest{
		QuestionID: f.bank[0].ID,
		Action:     "previous",
	})
	require.NoError(t, err)
	require.Equal(t, 0, nav.Index)

	// Unknown action stays on the posted question.
	nav, err = f.svc.SaveAnswer(ctx, 1, model.SaveAnswerRequest{
		QuestionID: f.bank[1].ID,
		Action:     "sideways",
	})
	require.NoError(t, err)
	require.Equal(t, 1, nav.Index)
}

func TestExamService_SaveAnswerUpserts(t *testing.T) {
	f := newExamFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)

	_, err = f.svc.SaveAnswer(ctx, 1, model.SaveAnswerRequest{
		QuestionID: f.bank[0].ID,
		Answer:     intPtr(1),
		Action:     "next",
	})
	require.NoError(t, err)

	// Revisiting with a different answer replaces the old one.
	_, err = f.svc.SaveAnswer(ctx, 1, model.SaveAnswerRequest{
		QuestionID: f.bank[0].ID,
		Answer:     intPtr(3),
		Action:     "next",
	})
	require.NoError(t, err)

	sess, err := f.sessions.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 3, sess.Answers[f.bank[0].ID])
	require.Len(t, sess.Answers, 1)
}

func TestExamService_SaveAnswerSubmitSignal(t *testing.T) {
	f := newExamFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)

	nav, err := f.svc.SaveAnswer(ctx, 1, model.SaveAnswerRequest{
		QuestionID: f.bank[2].ID,
		Answer:     intPtr(2),
		Action:     "submit",
	})
	require.NoError(t, err)
	require.True(t, nav.Submit)

	// The final answer is recorded before the submit hand-off.
	sess, err := f.sessions.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, sess.Answers[f.bank[2].ID])
}

func TestExamService_SaveAnswerExpiredSkipsWrite(t *testing.T) {
	f := newExamFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)
	f.ageSession(t, 1, 61*time.Minute)

	nav, err := f.svc.SaveAnswer(ctx, 1, model.SaveAnswerRequest{
		QuestionID: f.bank[0].ID,
		Answer:     intPtr(1),
		Action:     "next",
	})
	require.NoError(t, err)
	require.True(t, nav.Submit)

	sess, err := f.sessions.Get(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, sess.Answers, "late answers must not be recorded")
}

func TestExamService_Submit(t *testing.T) {
	f := newExamFixture(t, 5)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)

	for _, q := range f.bank {
		_, err = f.svc.SaveAnswer(ctx, 1, model.SaveAnswerRequest{
			QuestionID: q.ID,
			Answer:     intPtr(q.CorrectAnswer),
			Action:     "next",
		})
		require.NoError(t, err)
	}

	result, err := f.svc.Submit(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 5, result.CorrectAnswers)
	require.Equal(t, 100.0, result.Percentage)
	require.Equal(t, model.SubmissionManual, result.SubmissionType)

	// The session is gone: a second submit has nothing to score.
	_, err = f.svc.Submit(ctx, 1)
	require.ErrorIs(t, err, service.ErrInvalidSession)
}

func TestExamService_SubmitAfterExpiryIsAuto(t *testing.T) {
	f := newExamFixture(t, 2)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)
	f.ageSession(t, 1, 90*time.Minute)

	result, err := f.svc.Submit(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, model.SubmissionAuto, result.SubmissionType)
	require.Equal(t, 0, result.CorrectAnswers)
}

func TestExamService_SubmitPersistFailureKeepsSession(t *testing.T) {
	f := newExamFixture(t, 2)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)

	f.results.failCreate = true
	_, err = f.svc.Submit(ctx, 1)
	require.Error(t, err)

	// The attempt survives for a retry.
	sess, serr := f.sessions.Get(ctx, 1)
	require.NoError(t, serr)
	require.NotNil(t, sess)

	f.results.failCreate = false
	_, err = f.svc.Submit(ctx, 1)
	require.NoError(t, err)
}

func TestExamService_SnapshotSurvivesDeactivation(t *testing.T) {
	f := newExamFixture(t, 3)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)

	// Deactivate one snapshot question mid-exam. It stays renderable and
	// scorable because lookups go by id, not by the active flag.
	q := f.source.byID[f.bank[1].ID]
	q.IsActive = false
	f.source.byID[q.ID] = q
	f.source.active = []model.Question{f.bank[0], f.bank[2]}

	view, err := f.svc.GetQuestion(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, f.bank[1].ID, view.Question.ID)

	result, err := f.svc.Submit(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 3, result.TotalQuestions)
}

func TestExamService_GetResultOwnership(t *testing.T) {
	f := newExamFixture(t, 2)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)
	result, err := f.svc.Submit(ctx, 1)
	require.NoError(t, err)

	got, err := f.svc.GetResult(ctx, 1, result.ID)
	require.NoError(t, err)
	require.Equal(t, result.ID, got.ID)

	// Another user sees not-found, never the data.
	_, err = f.svc.GetResult(ctx, 2, result.ID)
	require.ErrorIs(t, err, service.ErrResultNotFound)

	_, err = f.svc.GetResult(ctx, 1, uuid.New())
	require.ErrorIs(t, err, service.ErrResultNotFound)
}

func TestExamService_GetStatus(t *testing.T) {
	f := newExamFixture(t, 2)
	ctx := context.Background()

	_, err := f.svc.StartExam(ctx, 1)
	require.NoError(t, err)

	status, err := f.svc.GetStatus(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 60, status.TimeRemaining)
	require.False(t, status.IsExpired)

	f.ageSession(t, 1, 61*time.Minute)
	status, err = f.svc.GetStatus(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 0, status.TimeRemaining)
	require.True(t, status.IsExpired)

	// Status never submits: the session is still there.
	sess, err := f.sessions.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, sess)
}

func intPtr(v int) *int { return &v }
