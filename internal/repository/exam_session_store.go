package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adiborse/online-examination-system/internal/config"
	"github.com/adiborse/online-examination-system/internal/model"
)

// ExamSessionStore keeps in-progress exam sessions in Redis, keyed by the
// owning user. Each entry carries a TTL of the exam duration plus a grace
// period: expiry is checked, not enforced, until the next client interaction,
// and the grace window keeps the session readable so that interaction can
// still trigger the auto-submission. A session abandoned past the grace
// window simply evaporates.
type ExamSessionStore struct {
	rdb   *redis.Client
	grace time.Duration
}

// NewExamSessionStore creates a new ExamSessionStore.
func NewExamSessionStore(rdb *redis.Client, grace time.Duration) *ExamSessionStore {
	return &ExamSessionStore{rdb: rdb, grace: grace}
}

// Get retrieves the user's session, or (nil, nil) when none exists.
func (s *ExamSessionStore) Get(ctx context.Context, userID int) (*model.ExamSession, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.ExamSessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	sess := &model.ExamSession{}
	if err := json.Unmarshal(raw, sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

// Save writes the session under its owner's key. The TTL is anchored to the
// session's start time so repeated saves never extend the attempt's lifetime.
func (s *ExamSessionStore) Save(ctx context.Context, sess *model.ExamSession) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	deadline := sess.StartTime.Add(sess.Duration() + s.grace)
	ttl := time.Until(deadline)
	if ttl <= 0 {
		// Past the grace window already. Keep the write visible just long
		// enough for an in-flight submission to complete.
		ttl = time.Minute
	}

	if err := s.rdb.Set(ctx, config.CacheKey.ExamSessionKey(sess.UserID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes the user's session. Deleting a missing session is not an error.
func (s *ExamSessionStore) Delete(ctx context.Context, userID int) error {
	if err := s.rdb.Del(ctx, config.CacheKey.ExamSessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
