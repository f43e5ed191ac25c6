package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/adiborse/online-examination-system/internal/model"
	"github.com/adiborse/online-examination-system/internal/repository"
)

func sessionFixture(t *testing.T) (*repository.ExamSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return repository.NewExamSessionStore(rdb, 30*time.Minute), mr
}

func TestExamSessionStore_RoundTrip(t *testing.T) {
	store, _ := sessionFixture(t)
	ctx := context.Background()

	qid := uuid.New()
	sess := &model.ExamSession{
		UserID:          7,
		QuestionIDs:     []uuid.UUID{qid},
		Answers:         map[uuid.UUID]int{qid: 2},
		CurrentIndex:    0,
		StartTime:       time.Now().Truncate(time.Second),
		DurationMinutes: 60,
	}

	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, sess.UserID, got.UserID)
	require.Equal(t, sess.QuestionIDs, got.QuestionIDs)
	require.Equal(t, 2, got.Answers[qid])
	require.Equal(t, 60, got.DurationMinutes)
}

func TestExamSessionStore_MissingSession(t *testing.T) {
	store, _ := sessionFixture(t)

	got, err := store.Get(context.Background(), 99)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestExamSessionStore_TTLAnchoredToStartTime(t *testing.T) {
	store, mr := sessionFixture(t)
	ctx := context.Background()

	sess := &model.ExamSession{
		UserID:          7,
		StartTime:       time.Now().Add(-30 * time.Minute),
		DurationMinutes: 60,
	}
	require.NoError(t, store.Save(ctx, sess))

	// 30 minutes elapsed, 60 minute box, 30 minute grace: about an hour left.
	ttl := mr.TTL("student:7:exam_session")
	require.InDelta(t, time.Hour, ttl, float64(time.Minute))

	// A later save does not extend the attempt's lifetime.
	require.NoError(t, store.Save(ctx, sess))
	require.InDelta(t, time.Hour, mr.TTL("student:7:exam_session"), float64(time.Minute))
}

func TestExamSessionStore_PastGraceFloor(t *testing.T) {
	store, mr := sessionFixture(t)
	ctx := context.Background()

	sess := &model.ExamSession{
		UserID:          7,
		StartTime:       time.Now().Add(-3 * time.Hour),
		DurationMinutes: 60,
	}
	require.NoError(t, store.Save(ctx, sess))

	// Way past the grace window: the write stays visible just long enough
	// for an in-flight submission.
	require.InDelta(t, time.Minute, mr.TTL("student:7:exam_session"), float64(time.Second))
}

func TestExamSessionStore_Delete(t *testing.T) {
	store, _ := sessionFixture(t)
	ctx := context.Background()

	sess := &model.ExamSession{UserID: 7, StartTime: time.Now(), DurationMinutes: 60}
	require.NoError(t, store.Save(ctx, sess))
	require.NoError(t, store.Delete(ctx, 7))

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.Nil(t, got)

	// Deleting a missing session is not an error.
	require.NoError(t, store.Delete(ctx, 7))
}

func TestExamSessionStore_Expiry(t *testing.T) {
	store, mr := sessionFixture(t)
	ctx := context.Background()

	sess := &model.ExamSession{UserID: 7, StartTime: time.Now(), DurationMinutes: 60}
	require.NoError(t, store.Save(ctx, sess))

	mr.FastForward(2 * time.Hour)

	got, err := store.Get(ctx, 7)
	require.NoError(t, err)
	require.Nil(t, got, "abandoned session must evaporate after the grace window")
}
