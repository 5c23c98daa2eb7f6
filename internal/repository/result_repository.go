package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/voxmind-backend/internal/model"
)

// ResultRepository handles persisted quiz results.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// ListByQuiz retrieves the latest results of a quiz, newest first.
func (r *ResultRepository) ListByQuiz(ctx context.Context, quizID string, limit int) ([]model.QuizResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, quiz_id, score, total, percentage, passed, reason, finished_at
		 FROM quiz_results WHERE quiz_id = $1
		 ORDER BY finished_at DESC
		 LIMIT $2`, quizID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.QuizResult
	for rows.Next() {
		var res model.QuizResult
		if err := rows.Scan(&res.ID, &res.SessionID, &res.QuizID, &res.Score, &res.Total,
			&res.Percentage, &res.Passed, &res.Reason, &res.FinishedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// Create inserts a single result. Replaying a session's result is a no-op.
func (r *ResultRepository) Create(ctx context.Context, res *model.QuizResult) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO quiz_results (session_id, quiz_id, score, total, percentage, passed, reason, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (session_id) DO NOTHING`,
		res.SessionID, res.QuizID, res.Score, res.Total, res.Percentage, res.Passed, res.Reason, res.FinishedAt,
	)
	return err
}

// UpsertAnswer stores the latest answer given for a question of a session.
func (r *ResultRepository) UpsertAnswer(ctx context.Context, a *model.SessionAnswer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO session_answers (session_id, quiz_id, question_index, answer, correct)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (session_id, question_index) DO UPDATE
		 SET answer = EXCLUDED.answer, correct = EXCLUDED.correct, updated_at = NOW()`,
		a.SessionID, a.QuizID, a.QuestionIndex, a.Answer, a.Correct,
	)
	return err
}

// Summary aggregates all persisted results of a quiz.
func (r *ResultRepository) Summary(ctx context.Context, quizID string) (*model.ResultSummary, error) {
	summary := &model.ResultSummary{QuizID: quizID}
	err := r.pool.QueryRow(ctx,
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE passed),
			COALESCE(AVG(percentage), 0)::float8,
			COALESCE(MAX(percentage), 0),
			MAX(finished_at)
		 FROM quiz_results WHERE quiz_id = $1`, quizID,
	).Scan(&summary.Attempts, &summary.Passed, &summary.AveragePercentage, &summary.BestPercentage, &summary.LastFinishedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT reason, COUNT(*) FROM quiz_results WHERE quiz_id = $1 GROUP BY reason`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary.Reasons = make(map[model.FinishReason]int)
	for rows.Next() {
		var reason model.FinishReason
		var count int
		if err := rows.Scan(&reason, &count); err != nil {
			return nil, err
		}
		summary.Reasons[reason] = count
	}
	return summary, rows.Err()
}
