package repository

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adiborse/online-examination-system/internal/model"
)

// ResultStats aggregates percentage statistics across all results.
type ResultStats struct {
	AverageScore float64 `json:"average_score"`
	HighestScore float64 `json:"highest_score"`
	LowestScore  float64 `json:"lowest_score"`
}

// ResultWithUser pairs a result with the name and email of the student who
// produced it, for admin views.
type ResultWithUser struct {
	model.Result
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// MarshalJSON flattens the embedded result alongside the user identity.
// The embedded Result's own marshaler would otherwise be promoted and drop
// the user fields entirely.
func (rw ResultWithUser) MarshalJSON() ([]byte, error) {
	type alias model.Result
	return json.Marshal(struct {
		alias
		Grade     string `json:"grade"`
		UserName  string `json:"user_name"`
		UserEmail string `json:"user_email"`
	}{alias(rw.Result), rw.Result.Grade(), rw.UserName, rw.UserEmail})
}

// ResultRepository handles exam result data access. Results are written once
// and never updated.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

const resultColumns = `id, user_id, questions, total_questions, correct_answers, score, percentage, time_spent, exam_duration, start_time, end_time, submission_type, created_at`

func scanResult(row interface{ Scan(dest ...any) error }, res *model.Result) error {
	return row.Scan(&res.ID, &res.UserID, &res.Questions, &res.TotalQuestions,
		&res.CorrectAnswers, &res.Score, &res.Percentage, &res.TimeSpentSecs,
		&res.ExamDuration, &res.StartTime, &res.EndTime, &res.SubmissionType, &res.CreatedAt)
}

// Create persists a new result.
func (r *ResultRepository) Create(ctx context.Context, res *model.Result) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO results
		   (user_id, questions, total_questions, correct_answers, score, percentage,
		    time_spent, exam_duration, start_time, end_time, submission_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		res.UserID, res.Questions, res.TotalQuestions, res.CorrectAnswers, res.Score,
		res.Percentage, res.TimeSpentSecs, res.ExamDuration, res.StartTime, res.EndTime,
		res.SubmissionType,
	).Scan(&res.ID, &res.CreatedAt)
}

// GetByID retrieves a result by id. Ownership is enforced by the caller.
func (r *ResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Result, error) {
	res := &model.Result{}
	err := scanResult(r.pool.QueryRow(ctx,
		`SELECT `+resultColumns+` FROM results WHERE id = $1`, id,
	), res)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListByUser retrieves a user's most recent results, newest first.
func (r *ResultRepository) ListByUser(ctx context.Context, userID, limit int) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+resultColumns+`
		 FROM results WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var res model.Result
		if err := scanResult(rows, &res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// BestPercentage returns a user's highest percentage, or 0 with no attempts.
func (r *ResultRepository) BestPercentage(ctx context.Context, userID int) (float64, error) {
	var best float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(percentage), 0) FROM results WHERE user_id = $1`, userID,
	).Scan(&best)
	return best, err
}

// ListPage retrieves a page of results joined with user identity, newest
// first, plus the total result count.
func (r *ResultRepository) ListPage(ctx context.Context, limit, offset int) ([]ResultWithUser, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM results`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.user_id, r.questions, r.total_questions, r.correct_answers,
		        r.score, r.percentage, r.time_spent, r.exam_duration, r.start_time,
		        r.end_time, r.submission_type, r.created_at, u.name, u.email
		 FROM results r
		 JOIN users u ON r.user_id = u.id
		 ORDER BY r.created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []ResultWithUser
	for rows.Next() {
		var rw ResultWithUser
		if err := rows.Scan(&rw.ID, &rw.UserID, &rw.Questions, &rw.TotalQuestions,
			&rw.CorrectAnswers, &rw.Score, &rw.Percentage, &rw.TimeSpentSecs,
			&rw.ExamDuration, &rw.StartTime, &rw.EndTime, &rw.SubmissionType,
			&rw.CreatedAt, &rw.UserName, &rw.UserEmail); err != nil {
			return nil, 0, err
		}
		results = append(results, rw)
	}
	return results, total, rows.Err()
}

// ListRecent retrieves the most recent results with user identity. Unlike
// ListPage it skips the total count; dashboard reads only need the rows.
func (r *ResultRepository) ListRecent(ctx context.Context, limit int) ([]ResultWithUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.user_id, r.questions, r.total_questions, r.correct_answers,
		        r.score, r.percentage, r.time_spent, r.exam_duration, r.start_time,
		        r.end_time, r.submission_type, r.created_at, u.name, u.email
		 FROM results r
		 JOIN users u ON r.user_id = u.id
		 ORDER BY r.created_at DESC
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ResultWithUser
	for rows.Next() {
		var rw ResultWithUser
		if err := rows.Scan(&rw.ID, &rw.UserID, &rw.Questions, &rw.TotalQuestions,
			&rw.CorrectAnswers, &rw.Score, &rw.Percentage, &rw.TimeSpentSecs,
			&rw.ExamDuration, &rw.StartTime, &rw.EndTime, &rw.SubmissionType,
			&rw.CreatedAt, &rw.UserName, &rw.UserEmail); err != nil {
			return nil, err
		}
		results = append(results, rw)
	}
	return results, rows.Err()
}

// Stats aggregates percentage statistics over all results. Zeros with no rows.
func (r *ResultRepository) Stats(ctx context.Context) (*ResultStats, error) {
	stats := &ResultStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(percentage), 0),
		        COALESCE(MAX(percentage), 0),
		        COALESCE(MIN(percentage), 0)
		 FROM results`,
	).Scan(&stats.AverageScore, &stats.HighestScore, &stats.LowestScore)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Count returns the total number of results.
func (r *ResultRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM results`).Scan(&n)
	return n, err
}
