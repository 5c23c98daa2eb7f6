package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/config"
	"github.com/stemsi/voxmind-backend/internal/firebase"
	"github.com/stemsi/voxmind-backend/internal/model"
	"github.com/stemsi/voxmind-backend/internal/validator"
	"golang.org/x/sync/singleflight"
)

// Catalog errors.
var (
	ErrCatalogUnavailable = errors.New("quiz catalog unavailable")
	ErrQuizNotFound       = errors.New("quiz not found")
)

// QuizSource reads the raw children of the quiz store root.
type QuizSource interface {
	FetchRoot(ctx context.Context) ([]firebase.Child, error)
}

// CatalogService loads the quiz list from the realtime database and keeps
// the decoded catalog in Redis.
type CatalogService struct {
	source QuizSource
	rdb    *redis.Client // nil disables caching
	ttl    time.Duration
	group  singleflight.Group
	log    zerolog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(source QuizSource, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CatalogService {
	return &CatalogService{
		source: source,
		rdb:    rdb,
		ttl:    ttl,
		log:    log.With().Str("component", "catalog_service").Logger(),
	}
}

// List returns the catalog, serving it from Redis when cached.
func (s *CatalogService) List(ctx context.Context) ([]model.Quiz, error) {
	if quizzes, ok := s.cached(ctx); ok {
		return quizzes, nil
	}
	return s.Refresh(ctx)
}

// ListItems returns the list rows for the catalog.
func (s *CatalogService) ListItems(ctx context.Context) ([]model.ListItem, error) {
	quizzes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]model.ListItem, len(quizzes))
	for i, q := range quizzes {
		items[i] = model.NewListItem(q)
	}
	return items, nil
}

// Get returns one quiz by ID.
func (s *CatalogService) Get(ctx context.Context, quizID string) (*model.Quiz, error) {
	quizzes, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		if quizzes[i].ID == quizID {
			return &quizzes[i], nil
		}
	}
	return nil, ErrQuizNotFound
}

// Refresh reads the store root and replaces the cached catalog. Concurrent
// callers share one in-flight read; a caller whose context ends stops
// waiting but does not cancel the read for the others.
func (s *CatalogService) Refresh(ctx context.Context) ([]model.Quiz, error) {
	ch := s.group.DoChan("catalog", func() (interface{}, error) {
		return s.fetch(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]model.Quiz), nil
	}
}

func (s *CatalogService) fetch(ctx context.Context) ([]model.Quiz, error) {
	children, err := s.source.FetchRoot(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("Catalog fetch failed")
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	quizzes, skipped := DecodeQuizzes(children)
	s.log.Info().
		Int("quizzes", len(quizzes)).
		Int("skipped", skipped).
		Msg("Catalog loaded")

	if s.rdb != nil {
		data, err := json.Marshal(quizzes)
		if err == nil {
			err = s.rdb.Set(ctx, config.CacheKey.CatalogKey(), data, s.ttl).Err()
		}
		if err != nil {
			s.log.Warn().Err(err).Msg("Failed to cache catalog")
		}
	}
	return quizzes, nil
}

func (s *CatalogService) cached(ctx context.Context) ([]model.Quiz, bool) {
	if s.rdb == nil {
		return nil, false
	}
	data, err := s.rdb.Get(ctx, config.CacheKey.CatalogKey()).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Msg("Catalog cache read failed")
		}
		return nil, false
	}
	var quizzes []model.Quiz
	if err := json.Unmarshal(data, &quizzes); err != nil {
		s.log.Warn().Err(err).Msg("Corrupt catalog cache entry")
		return nil, false
	}
	return quizzes, true
}

// DecodeQuizzes turns root children into quizzes, keeping their order.
// Null and malformed children are dropped; skipped reports how many.
// A quiz without an id takes its child key.
func DecodeQuizzes(children []firebase.Child) (quizzes []model.Quiz, skipped int) {
	quizzes = make([]model.Quiz, 0, len(children))
	for _, child := range children {
		q, ok := decodeQuiz(child)
		if !ok {
			skipped++
			continue
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, skipped
}

func decodeQuiz(child firebase.Child) (model.Quiz, bool) {
	raw := bytes.TrimSpace(child.Value)
	if len(raw) == 0 || raw[0] != '{' {
		return model.Quiz{}, false
	}

	var q model.Quiz
	if err := json.Unmarshal(raw, &q); err != nil {
		return model.Quiz{}, false
	}
	if err := validator.Struct(q); err != nil {
		return model.Quiz{}, false
	}
	if _, ok := q.Minutes(); !ok {
		return model.Quiz{}, false
	}
	if q.ID == "" {
		q.ID = child.Key
	}
	return q, true
}
