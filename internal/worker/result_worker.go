package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/config"
	"github.com/stemsi/voxmind-backend/internal/model"
	"github.com/stemsi/voxmind-backend/internal/repository"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second
)

// ResultWorker drains persist_results_queue into quiz_results in batches.
type ResultWorker struct {
	pool *pgxpool.Pool
	repo *repository.ResultRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewResultWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		pool: pool,
		repo: repository.NewResultRepository(pool),
		rdb:  rdb,
		log:  log.With().Str("component", "result_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled, then flushes what it holds.
func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]*model.QuizResult, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {
			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Int("pending", len(batch)).Msg("Shutdown requested, flushing batch")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ResultPollTimeout, config.WorkerKey.PersistResultsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			var res model.QuizResult
			if err := json.Unmarshal([]byte(item[1]), &res); err != nil {
				w.log.Error().Err(err).Msg("Invalid result payload")
				continue
			}
			batch = append(batch, &res)
		}
	}
}

func (w *ResultWorker) flushSafe(ctx context.Context, batch []*model.QuizResult) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Int("size", len(batch)).Msg("Bulk insert failed, using fallback")

		for _, res := range batch {
			if err := w.repo.Create(ctx, res); err != nil {
				w.log.Error().Err(err).
					Str("session_id", res.SessionID.String()).
					Msg("Insert failed, requeueing")
				raw, _ := json.Marshal(res)
				w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw)
			}
		}
		return
	}

	w.log.Debug().Int("size", len(batch)).Msg("Results persisted")
}

func (w *ResultWorker) bulkInsert(ctx context.Context, batch []*model.QuizResult) error {
	n := len(batch)
	sessionIDs := make([]uuid.UUID, n)
	quizIDs := make([]string, n)
	scores := make([]int32, n)
	totals := make([]int32, n)
	percentages := make([]int32, n)
	passed := make([]bool, n)
	reasons := make([]string, n)
	finishedAts := make([]time.Time, n)

	for i, res := range batch {
		sessionIDs[i] = res.SessionID
		quizIDs[i] = res.QuizID
		scores[i] = int32(res.Score)
		totals[i] = int32(res.Total)
		percentages[i] = int32(res.Percentage)
		passed[i] = res.Passed
		reasons[i] = string(res.Reason)
		finishedAts[i] = res.FinishedAt
	}

	_, err := w.pool.Exec(ctx, `
		INSERT INTO quiz_results (session_id, quiz_id, score, total, percentage, passed, reason, finished_at)
		SELECT * FROM UNNEST(
			$1::uuid[],
			$2::text[],
			$3::int[],
			$4::int[],
			$5::int[],
			$6::bool[],
			$7::varchar[],
			$8::timestamptz[]
		)
		ON CONFLICT (session_id) DO NOTHING
	`, sessionIDs, quizIDs, scores, totals, percentages, passed, reasons, finishedAts)
	return err
}
