package websocket

import (
	"github.com/stemsi/voxmind-backend/internal/model"
	"github.com/stemsi/voxmind-backend/internal/quiz"
)

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionSelect Action = "select"
	ActionNext   Action = "next"
	ActionMotion Action = "motion"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionPing   Action = "ping"
	ActionClose  Action = "close"
)

// RequestPayload is the single frame shape the quiz screen sends.
// Fields not used by an action are ignored.
type RequestPayload struct {
	Action Action  `json:"action" validate:"required,oneof=select next motion pause resume ping close"`
	Option *int    `json:"option,omitempty" validate:"omitempty,min=0,max=3"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventQuestion Event = "question"
	EventSelected Event = "selected"
	EventNotice   Event = "notice"
	EventTick     Event = "tick"
	EventFinished Event = "finished"
	EventPong     Event = "pong"
	EventError    Event = "error"
)

// QuestionEvent renders the current question and resets any highlight.
type QuestionEvent struct {
	Event Event `json:"event"`
	quiz.View
}

type SelectedEvent struct {
	Event  Event  `json:"event"`
	Option int    `json:"option"`
	Answer string `json:"answer"`
}

type NoticeEvent struct {
	Event   Event  `json:"event"`
	Message string `json:"message"`
}

// TickEvent carries the remaining time as MM:SS and in whole seconds.
type TickEvent struct {
	Event     Event  `json:"event"`
	Remaining string `json:"remaining"`
	Seconds   int    `json:"seconds"`
}

type FinishedEvent struct {
	Event Event `json:"event"`
	model.Result
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
