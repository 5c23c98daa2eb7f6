package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/config"
	"github.com/stemsi/voxmind-backend/internal/model"
)

// Launch errors.
var (
	ErrLaunchNotFound = errors.New("launch payload not found or already consumed")
	ErrTokenInvalid   = errors.New("invalid session token")
	ErrTokenExpired   = errors.New("session token expired")
)

// SessionClaims binds a quiz screen connection to one launch.
// The JWT ID is the session ID.
type SessionClaims struct {
	jwt.RegisteredClaims
	QuizID string `json:"quiz_id"`
}

// SessionID parses the session ID carried in the claims.
func (c *SessionClaims) SessionID() (uuid.UUID, error) {
	return uuid.Parse(c.ID)
}

// LaunchStore holds staged launch payloads until a quiz screen takes them.
// Take returns ErrLaunchNotFound for a missing or already taken slot.
type LaunchStore interface {
	Put(ctx context.Context, sessionID uuid.UUID, data []byte, ttl time.Duration) error
	Take(ctx context.Context, sessionID uuid.UUID) ([]byte, error)
}

// RedisLaunchStore keeps launch slots in Redis under CacheKey.LaunchKey.
type RedisLaunchStore struct {
	rdb *redis.Client
}

// NewRedisLaunchStore creates a LaunchStore backed by rdb.
func NewRedisLaunchStore(rdb *redis.Client) *RedisLaunchStore {
	return &RedisLaunchStore{rdb: rdb}
}

func (r *RedisLaunchStore) Put(ctx context.Context, sessionID uuid.UUID, data []byte, ttl time.Duration) error {
	return r.rdb.Set(ctx, config.CacheKey.LaunchKey(sessionID.String()), data, ttl).Err()
}

func (r *RedisLaunchStore) Take(ctx context.Context, sessionID uuid.UUID) ([]byte, error) {
	data, err := r.rdb.GetDel(ctx, config.CacheKey.LaunchKey(sessionID.String())).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrLaunchNotFound
	}
	return data, err
}

// LaunchService stages a selected quiz for the quiz screen and issues the
// token the screen connects with.
type LaunchService struct {
	catalog *CatalogService
	store   LaunchStore
	secret  []byte
	grace   time.Duration
	log     zerolog.Logger
}

// NewLaunchService creates a new LaunchService.
func NewLaunchService(catalog *CatalogService, store LaunchStore, cfg *config.Config, log zerolog.Logger) *LaunchService {
	return &LaunchService{
		catalog: catalog,
		store:   store,
		secret:  []byte(cfg.JWTSecret),
		grace:   cfg.SessionGrace,
		log:     log.With().Str("component", "launch_service").Logger(),
	}
}

// Launch stages the chosen quiz's time limit and questions as the payload
// of a new session and returns the token for its quiz screen.
func (s *LaunchService) Launch(ctx context.Context, quizID string) (*model.LaunchResponse, error) {
	quiz, err := s.catalog.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	launch := model.Launch{
		SessionID: uuid.New(),
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		Time:      quiz.Time,
		Questions: quiz.QuestionList,
		CreatedAt: now,
	}

	ttl := launch.TimeLimit() + s.grace
	data, err := json.Marshal(launch)
	if err != nil {
		return nil, fmt.Errorf("marshal launch: %w", err)
	}
	if err := s.store.Put(ctx, launch.SessionID, data, ttl); err != nil {
		return nil, fmt.Errorf("store launch: %w", err)
	}

	expiresAt := now.Add(ttl)
	token, err := s.IssueToken(launch.SessionID, launch.QuizID, now, expiresAt)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("session_id", launch.SessionID.String()).
		Str("quiz_id", launch.QuizID).
		Int("questions", len(launch.Questions)).
		Msg("Quiz launched")

	return &model.LaunchResponse{
		SessionID: launch.SessionID,
		Token:     token,
		ExpiresAt: expiresAt,
		StreamURL: "/ws/v1/session/stream?token=" + token,
	}, nil
}

// Consume takes the launch payload out of its slot. A payload opens exactly
// one quiz screen.
func (s *LaunchService) Consume(ctx context.Context, sessionID uuid.UUID) (*model.Launch, error) {
	data, err := s.store.Take(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrLaunchNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("take launch: %w", err)
	}

	var launch model.Launch
	if err := json.Unmarshal(data, &launch); err != nil {
		return nil, fmt.Errorf("unmarshal launch: %w", err)
	}
	return &launch, nil
}

// IssueToken signs a session token.
func (s *LaunchService) IssueToken(sessionID uuid.UUID, quizID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID.String(),
			Subject:   quizID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		QuizID: quizID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a session token.
func (s *LaunchService) ValidateToken(tokenStr string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if _, err := claims.SessionID(); err != nil {
		return nil, fmt.Errorf("%w: bad session id", ErrTokenInvalid)
	}
	return claims, nil
}
