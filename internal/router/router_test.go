package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/config"
	"github.com/stemsi/voxmind-backend/internal/firebase"
	"github.com/stemsi/voxmind-backend/internal/handler"
	"github.com/stemsi/voxmind-backend/internal/service"
)

type emptySource struct{}

func (emptySource) FetchRoot(context.Context) ([]firebase.Child, error) { return nil, nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cfg := &config.Config{GinMode: "test", JWTSecret: "test", LaunchRateLimit: 5}
	log := zerolog.Nop()
	catalog := service.NewCatalogService(emptySource{}, nil, time.Minute, log)
	launches := service.NewLaunchService(catalog, nil, cfg, log)

	handlers := &Handlers{
		Quiz: handler.NewQuizHandler(catalog, launches, log),
		WS:   handler.NewWSHandler(launches, nil, handler.ShakeSettings{}, log, nil),
	}
	return SetupRouter(ctx, launches, handlers, cfg)
}

func TestRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestRouter_RequestIDPassthrough(t *testing.T) {
	r := newTestRouter(t)
	const clientID = "6f1c2a9e-4b3d-4c8e-9a7f-0d5e8b2c1a34"

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", clientID)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != clientID {
		t.Errorf("uuid id: got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "not a uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got == "not a uuid" || got == "" {
		t.Errorf("non-uuid id: got %q", got)
	}
}

func TestRouter_QuizListCacheable(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quizzes", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Cache-Control"), "public") {
		t.Errorf("Cache-Control = %q", w.Header().Get("Cache-Control"))
	}
}

func TestRouter_StreamRequiresToken(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws/v1/session/stream", nil))
	if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), "TOKEN_REQUIRED") {
		t.Fatalf("no token: %d %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws/v1/session/stream?token=garbage", nil))
	if w.Code != http.StatusUnauthorized || !strings.Contains(w.Body.String(), "TOKEN_INVALID") {
		t.Fatalf("bad token: %d %s", w.Code, w.Body.String())
	}
}
