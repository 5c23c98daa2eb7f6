package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/config"
	"github.com/stemsi/voxmind-backend/internal/model"
	"github.com/stemsi/voxmind-backend/internal/repository"
)

// ResultService queues finished sessions and answers for persistence and
// serves persisted results.
type ResultService struct {
	repo *repository.ResultRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewResultService creates a new ResultService.
func NewResultService(repo *repository.ResultRepository, rdb *redis.Client, log zerolog.Logger) *ResultService {
	return &ResultService{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "result_service").Logger(),
	}
}

// Record queues a finished session's result.
func (s *ResultService) Record(ctx context.Context, launch *model.Launch, res model.Result) error {
	payload, err := json.Marshal(model.QuizResult{
		SessionID:  launch.SessionID,
		QuizID:     launch.QuizID,
		Score:      res.Score,
		Total:      res.Total,
		Percentage: res.Percentage,
		Passed:     res.Passed,
		Reason:     res.Reason,
		FinishedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, payload).Err(); err != nil {
		return fmt.Errorf("queue result: %w", err)
	}
	return nil
}

// RecordAnswer queues one advance of a session.
func (s *ResultService) RecordAnswer(ctx context.Context, answer model.SessionAnswer) error {
	payload, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("marshal answer: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, payload).Err(); err != nil {
		return fmt.Errorf("queue answer: %w", err)
	}
	return nil
}

// ListByQuiz returns the most recent results for a quiz.
func (s *ResultService) ListByQuiz(ctx context.Context, quizID string, limit int) ([]model.QuizResult, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	results, err := s.repo.ListByQuiz(ctx, quizID, limit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	if results == nil {
		results = []model.QuizResult{}
	}
	return results, nil
}

// Summary returns aggregate statistics for a quiz's results.
func (s *ResultService) Summary(ctx context.Context, quizID string) (*model.ResultSummary, error) {
	summary, err := s.repo.Summary(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("summarise results: %w", err)
	}
	return summary, nil
}
