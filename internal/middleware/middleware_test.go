package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/voxmind-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter_Allow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewRateLimiter(ctx, 2, time.Minute)
	now := time.Unix(1700000000, 0)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Fatal("third request within the interval should be limited")
	}
	if !rl.Allow("b") {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Fatal("bucket should refill after the interval")
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := gin.New()
	r.POST("/launch", NewRateLimiter(ctx, 1, time.Minute).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/launch", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/launch", nil))

	if first.Code != http.StatusCreated {
		t.Errorf("first = %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second = %d", second.Code)
	}
}

type fakeValidator struct {
	claims *service.SessionClaims
	err    error
}

func (f fakeValidator) ValidateToken(string) (*service.SessionClaims, error) {
	return f.claims, f.err
}

func TestRequireSessionToken(t *testing.T) {
	claims := &service.SessionClaims{QuizID: "capitals"}
	claims.ID = uuid.NewString()

	tests := []struct {
		name      string
		validator fakeValidator
		target    string
		header    string
		want      int
		wantCode  string
	}{
		{"missing", fakeValidator{claims: claims}, "/stream", "", http.StatusUnauthorized, "TOKEN_REQUIRED"},
		{"query", fakeValidator{claims: claims}, "/stream?token=abc", "", http.StatusOK, ""},
		{"bearer", fakeValidator{claims: claims}, "/stream", "Bearer abc", http.StatusOK, ""},
		{"expired", fakeValidator{err: service.ErrTokenExpired}, "/stream?token=abc", "", http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"invalid", fakeValidator{err: service.ErrTokenInvalid}, "/stream?token=abc", "", http.StatusUnauthorized, "TOKEN_INVALID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/stream", RequireSessionToken(tt.validator), func(c *gin.Context) {
				if GetSessionClaims(c) == nil {
					t.Error("claims not set")
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("status = %d, want %d", w.Code, tt.want)
			}
			if tt.wantCode != "" && !strings.Contains(w.Body.String(), tt.wantCode) {
				t.Errorf("body %s does not contain %s", w.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestBrotli(t *testing.T) {
	large := strings.Repeat("quiz ", 1000)

	r := gin.New()
	r.Use(Brotli())
	r.GET("/large", func(c *gin.Context) { c.String(http.StatusOK, large) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	t.Run("CompressesLargeBodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/large", nil)
		req.Header.Set("Accept-Encoding", "gzip, br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Header().Get("Content-Encoding") != "br" {
			t.Fatalf("Content-Encoding = %q", w.Header().Get("Content-Encoding"))
		}
		body, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
		if err != nil {
			t.Fatal(err)
		}
		if string(body) != large {
			t.Fatal("decompressed body mismatch")
		}
	})

	t.Run("LeavesSmallBodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/small", nil)
		req.Header.Set("Accept-Encoding", "br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Header().Get("Content-Encoding") != "" || w.Body.String() != "ok" {
			t.Fatalf("small body altered: %q %q", w.Header().Get("Content-Encoding"), w.Body.String())
		}
	})

	t.Run("SkipsWithoutAcceptEncoding", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/large", nil))

		if w.Header().Get("Content-Encoding") != "" || w.Body.String() != large {
			t.Fatal("response compressed without br in Accept-Encoding")
		}
	})
}
