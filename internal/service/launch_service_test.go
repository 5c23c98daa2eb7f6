package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/config"
	"github.com/stemsi/voxmind-backend/internal/firebase"
)

type memLaunchStore struct {
	mu    sync.Mutex
	slots map[uuid.UUID][]byte
	ttls  map[uuid.UUID]time.Duration
}

func newMemLaunchStore() *memLaunchStore {
	return &memLaunchStore{slots: map[uuid.UUID][]byte{}, ttls: map[uuid.UUID]time.Duration{}}
}

func (m *memLaunchStore) Put(_ context.Context, id uuid.UUID, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[id] = data
	m.ttls[id] = ttl
	return nil
}

func (m *memLaunchStore) Take(_ context.Context, id uuid.UUID) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.slots[id]
	if !ok {
		return nil, ErrLaunchNotFound
	}
	delete(m.slots, id)
	return data, nil
}

func newTestLaunchService(secret string, catalog *CatalogService) *LaunchService {
	cfg := &config.Config{JWTSecret: secret, SessionGrace: time.Minute}
	return NewLaunchService(catalog, nil, cfg, zerolog.Nop())
}

func TestLaunchService_TokenRoundTrip(t *testing.T) {
	svc := newTestLaunchService("secret", nil)
	sessionID := uuid.New()
	now := time.Now()

	token, err := svc.IssueToken(sessionID, "capitals", now, now.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.QuizID != "capitals" {
		t.Errorf("quiz id = %q", claims.QuizID)
	}
	got, err := claims.SessionID()
	if err != nil || got != sessionID {
		t.Errorf("session id = %v (%v), want %v", got, err, sessionID)
	}
}

func TestLaunchService_ValidateTokenRejects(t *testing.T) {
	svc := newTestLaunchService("secret", nil)
	other := newTestLaunchService("other-secret", nil)
	now := time.Now()

	expired, _ := svc.IssueToken(uuid.New(), "q", now.Add(-2*time.Hour), now.Add(-time.Hour))
	foreign, _ := other.IssueToken(uuid.New(), "q", now, now.Add(time.Hour))

	if _, err := svc.ValidateToken(expired); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired token: got %v", err)
	}
	if _, err := svc.ValidateToken(foreign); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("foreign token: got %v", err)
	}
	if _, err := svc.ValidateToken("not-a-jwt"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("garbage token: got %v", err)
	}
}

func TestLaunchService_LaunchUnknownQuiz(t *testing.T) {
	src := &fakeSource{children: []firebase.Child{child("0", capitalsQuiz)}}
	catalog := NewCatalogService(src, nil, time.Minute, zerolog.Nop())
	svc := newTestLaunchService("secret", catalog)

	if _, err := svc.Launch(context.Background(), "missing"); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestLaunchService_ConsumeOnce(t *testing.T) {
	src := &fakeSource{children: []firebase.Child{child("0", capitalsQuiz)}}
	catalog := NewCatalogService(src, nil, time.Minute, zerolog.Nop())
	store := newMemLaunchStore()
	cfg := &config.Config{JWTSecret: "secret", SessionGrace: time.Minute}
	svc := NewLaunchService(catalog, store, cfg, zerolog.Nop())
	ctx := context.Background()

	resp, err := svc.Launch(ctx, "capitals")
	if err != nil {
		t.Fatal(err)
	}
	if ttl := store.ttls[resp.SessionID]; ttl != 6*time.Minute {
		t.Errorf("slot ttl = %v, want time limit plus grace", ttl)
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Errorf("expires_at %v is not in the future", resp.ExpiresAt)
	}
	if _, err := svc.ValidateToken(resp.Token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}

	launch, err := svc.Consume(ctx, resp.SessionID)
	if err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if launch.QuizID != "capitals" || launch.Time != "5" || len(launch.Questions) != 1 {
		t.Errorf("unexpected launch: %+v", launch)
	}

	if _, err := svc.Consume(ctx, resp.SessionID); !errors.Is(err, ErrLaunchNotFound) {
		t.Fatalf("second consume: expected ErrLaunchNotFound, got %v", err)
	}
	if _, err := svc.Consume(ctx, uuid.New()); !errors.Is(err, ErrLaunchNotFound) {
		t.Fatalf("unknown session: expected ErrLaunchNotFound, got %v", err)
	}
}
