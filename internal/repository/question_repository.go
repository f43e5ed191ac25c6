package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adiborse/online-examination-system/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, question_text, options, correct_answer, difficulty, subject, category, is_active, created_by, created_at, updated_at`

func scanQuestion(row interface{ Scan(dest ...any) error }, q *model.Question) error {
	return row.Scan(&q.ID, &q.QuestionText, &q.Options, &q.CorrectAnswer, &q.Difficulty,
		&q.Subject, &q.Category, &q.IsActive, &q.CreatedBy, &q.CreatedAt, &q.UpdatedAt)
}

// ListActive retrieves all active questions in stable snapshot order
// (ascending creation time).
func (r *QuestionRepository) ListActive(ctx context.Context) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions WHERE is_active = TRUE
		 ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// GetByID retrieves a question by id regardless of its active flag, so a
// session snapshot stays resolvable after the question is soft-deleted.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id,
	), q)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListByIDs retrieves the question records for a session snapshot, again
// ignoring the active flag. Rows come back in snapshot (creation) order.
func (r *QuestionRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions WHERE id = ANY($1)
		 ORDER BY created_at ASC, id ASC`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListActivePage retrieves a page of active questions, newest first, plus the
// total active count.
func (r *QuestionRepository) ListActivePage(ctx context.Context, limit, offset int) ([]model.Question, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE is_active = TRUE`,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions WHERE is_active = TRUE
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, 0, err
		}
		questions = append(questions, q)
	}
	return questions, total, rows.Err()
}

// CountActive returns the number of active questions.
func (r *QuestionRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE is_active = TRUE`,
	).Scan(&n)
	return n, err
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (question_text, options, correct_answer, difficulty, subject, category, is_active, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		q.QuestionText, q.Options, q.CorrectAnswer, q.Difficulty, q.Subject, q.Category, q.IsActive, q.CreatedBy,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// Update replaces the editable fields of a question.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`UPDATE questions
		 SET question_text = $1, options = $2, correct_answer = $3,
		     difficulty = $4, subject = $5, category = $6, updated_at = NOW()
		 WHERE id = $7
		 RETURNING updated_at`,
		q.QuestionText, q.Options, q.CorrectAnswer, q.Difficulty, q.Subject, q.Category, q.ID,
	).Scan(&q.UpdatedAt)
}

// SoftDelete deactivates a question. In-progress sessions holding it in
// their snapshot are unaffected.
func (r *QuestionRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE questions SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return err
}
