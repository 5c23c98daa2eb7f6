package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/config"
	"github.com/stemsi/voxmind-backend/internal/firebase"
	"github.com/stemsi/voxmind-backend/internal/response"
	"github.com/stemsi/voxmind-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubSource struct {
	body string
	err  error
}

func (s stubSource) FetchRoot(context.Context) ([]firebase.Child, error) {
	if s.err != nil {
		return nil, s.err
	}
	return firebase.ParseChildren([]byte(s.body))
}

const storeRoot = `[
	{"id":"capitals","title":"Capitals","subtitle":"Europe","time":"5",
	 "questionList":[{"question":"Capital of France?","options":["Paris","London"],"correct":"Paris"}]},
	null,
	{"title":"Broken"}
]`

func newQuizRouter(src service.QuizSource) *gin.Engine {
	log := zerolog.Nop()
	catalog := service.NewCatalogService(src, nil, time.Minute, log)
	launches := service.NewLaunchService(catalog, nil, &config.Config{JWTSecret: "test"}, log)
	h := NewQuizHandler(catalog, launches, log)

	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	r.GET("/api/v1/quizzes", h.ListQuizzes)
	r.POST("/api/v1/quizzes/refresh", h.RefreshCatalog)
	r.POST("/api/v1/quizzes/:quiz_id/launch", h.LaunchQuiz)
	return r
}

type envelope struct {
	Data  json.RawMessage     `json:"data"`
	Error *response.ErrorBody `json:"error"`
}

func serve(t *testing.T, r *gin.Engine, method, target string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return w.Code, env
}

func TestQuizHandler_ListQuizzes(t *testing.T) {
	r := newQuizRouter(stubSource{body: storeRoot})

	code, env := serve(t, r, http.MethodGet, "/api/v1/quizzes")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}

	var data struct {
		Quizzes []struct {
			ID        string `json:"id"`
			Title     string `json:"title"`
			TimeLabel string `json:"time_label"`
		} `json:"quizzes"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Quizzes) != 1 {
		t.Fatalf("expected malformed records to be dropped, got %d quizzes", len(data.Quizzes))
	}
	if data.Quizzes[0].ID != "capitals" || data.Quizzes[0].TimeLabel != "5 min" {
		t.Errorf("unexpected row %+v", data.Quizzes[0])
	}
}

func TestQuizHandler_CatalogUnavailable(t *testing.T) {
	r := newQuizRouter(stubSource{err: errors.New("connection refused")})

	code, env := serve(t, r, http.MethodGet, "/api/v1/quizzes")
	if code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", code)
	}
	if env.Error == nil || env.Error.Code != response.ErrCatalogUnavailable {
		t.Fatalf("unexpected error body %+v", env.Error)
	}
}

func TestQuizHandler_RefreshCatalog(t *testing.T) {
	r := newQuizRouter(stubSource{body: storeRoot})

	code, env := serve(t, r, http.MethodPost, "/api/v1/quizzes/refresh")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var data struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Count != 1 {
		t.Errorf("count = %d", data.Count)
	}
}

func TestQuizHandler_LaunchUnknownQuiz(t *testing.T) {
	r := newQuizRouter(stubSource{body: storeRoot})

	code, env := serve(t, r, http.MethodPost, "/api/v1/quizzes/nope/launch")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d", code)
	}
	if env.Error == nil || env.Error.Code != response.ErrQuizNotFound {
		t.Fatalf("unexpected error body %+v", env.Error)
	}
}
