package model

import (
	"time"

	"github.com/google/uuid"
)

// Launch is the navigation payload handed from the quiz list to the quiz
// screen. It is passed by value and stored per session, never shared.
type Launch struct {
	SessionID uuid.UUID  `json:"session_id"`
	QuizID    string     `json:"quiz_id"`
	Title     string     `json:"title"`
	Time      string     `json:"time"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
}

// TimeLimit returns the countdown length for the session.
func (l Launch) TimeLimit() time.Duration {
	return Quiz{Time: l.Time}.TimeLimit()
}

// LaunchResponse is returned when a quiz is selected from the list.
type LaunchResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	StreamURL string    `json:"stream_url"`
}

// FinishReason records how a session reached the finished state.
type FinishReason string

const (
	FinishCompleted FinishReason = "completed"
	FinishTimeout   FinishReason = "timeout"
	FinishEmpty     FinishReason = "empty"
)

// Result is the summary shown when a session finishes.
type Result struct {
	Score      int          `json:"score"`
	Total      int          `json:"total"`
	Percentage int          `json:"percentage"`
	Passed     bool         `json:"passed"`
	Reason     FinishReason `json:"reason"`
}

// QuizResult is a persisted finished session.
type QuizResult struct {
	ID         int64        `json:"id"`
	SessionID  uuid.UUID    `json:"session_id"`
	QuizID     string       `json:"quiz_id"`
	Score      int          `json:"score"`
	Total      int          `json:"total"`
	Percentage int          `json:"percentage"`
	Passed     bool         `json:"passed"`
	Reason     FinishReason `json:"reason"`
	FinishedAt time.Time    `json:"finished_at"`
}

// SessionAnswer is one "next" advance, persisted for review.
type SessionAnswer struct {
	SessionID     uuid.UUID `json:"session_id"`
	QuizID        string    `json:"quiz_id"`
	QuestionIndex int       `json:"question_index"`
	Answer        string    `json:"answer"`
	Correct       bool      `json:"correct"`
}

// ResultSummary aggregates the persisted results of one quiz.
type ResultSummary struct {
	QuizID            string               `json:"quiz_id"`
	Attempts          int                  `json:"attempts"`
	Passed            int                  `json:"passed"`
	AveragePercentage float64              `json:"average_percentage"`
	BestPercentage    int                  `json:"best_percentage"`
	LastFinishedAt    *time.Time           `json:"last_finished_at"`
	Reasons           map[FinishReason]int `json:"reasons"`
}
