package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/model"
	"github.com/stemsi/voxmind-backend/internal/quiz"
	ws "github.com/stemsi/voxmind-backend/internal/websocket"
)

const recordTimeout = 5 * time.Second

// resultRecorder queues what a screen produces for persistence.
type resultRecorder interface {
	Record(ctx context.Context, launch *model.Launch, res model.Result) error
	RecordAnswer(ctx context.Context, answer model.SessionAnswer) error
}

type inbound struct {
	req ws.RequestPayload
	err error
}

// screen is one open quiz screen. Only the goroutine in run touches the
// session, the detector and the countdown.
type screen struct {
	conn      *websocket.Conn
	launch    *model.Launch
	session   *quiz.Session
	shake     *quiz.ShakeDetector
	countdown *quiz.Countdown
	recorder  resultRecorder
	log       zerolog.Logger
	reported  bool
}

func newScreen(conn *websocket.Conn, launch *model.Launch, recorder resultRecorder, shake ShakeSettings, log zerolog.Logger) *screen {
	return &screen{
		conn:     conn,
		launch:   launch,
		session:  quiz.NewSession(launch.Questions),
		shake:    quiz.NewShakeDetector(shake.Threshold, shake.Debounce),
		recorder: recorder,
		log:      log,
	}
}

// run drives the session until the client closes the screen, the connection
// drops or ctx ends. The countdown is released on every path.
func (s *screen) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan inbound)
	readErr := make(chan error, 1)
	go s.readLoop(ctx, frames, readErr)

	var (
		ticks   <-chan time.Duration
		expired <-chan struct{}
	)

	if s.session.Finished() {
		s.finish(ctx)
	} else {
		s.countdown = quiz.StartCountdown(ctx, s.launch.TimeLimit(), quiz.CountdownInterval)
		defer s.countdown.Stop()
		ticks, expired = s.countdown.Ticks(), s.countdown.Expired()
		s.sendQuestion()
	}

	for {
		select {
		case <-ctx.Done():
			return

		case err := <-readErr:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("Unexpected close")
			} else {
				s.log.Debug().Msg("Connection closed")
			}
			return

		case in := <-frames:
			if in.err != nil {
				s.writeError(in.err.Error())
				continue
			}
			if !s.handle(ctx, in.req) {
				return
			}

		case remaining := <-ticks:
			s.write(ws.TickEvent{
				Event:     ws.EventTick,
				Remaining: quiz.FormatRemaining(remaining),
				Seconds:   int(remaining / time.Second),
			})

		case <-expired:
			if s.session.Expire() {
				s.log.Info().Msg("Time limit reached")
			}
		}

		if s.session.Finished() && !s.reported {
			ticks, expired = nil, nil
			s.finish(ctx)
		}
	}
}

func (s *screen) readLoop(ctx context.Context, frames chan<- inbound, readErr chan<- error) {
	for {
		data, err := ws.ReadMessage(s.conn)
		if err != nil {
			readErr <- err
			return
		}

		req, err := ws.DecodeRequest(data)
		select {
		case frames <- inbound{req: req, err: err}:
		case <-ctx.Done():
			return
		}
	}
}

// handle applies one client action. It returns false when the client closed
// the screen.
func (s *screen) handle(ctx context.Context, req ws.RequestPayload) bool {
	switch req.Action {
	case ws.ActionPing:
		s.write(ws.PongResponse{Event: ws.EventPong})
	case ws.ActionClose:
		_ = ws.CloseNormal(s.conn, "quiz closed")
		return false
	case ws.ActionPause:
		s.shake.Pause()
	case ws.ActionResume:
		s.shake.Resume()
	case ws.ActionSelect:
		s.handleSelect(req)
	case ws.ActionNext:
		s.handleNext(ctx)
	case ws.ActionMotion:
		s.handleMotion(req)
	default:
		s.writeError("unknown action: " + string(req.Action))
	}
	return true
}

func (s *screen) handleSelect(req ws.RequestPayload) {
	if req.Option == nil {
		s.writeError("option is required")
		return
	}
	if err := s.session.Select(*req.Option); err != nil {
		s.writeError(err.Error())
		return
	}
	s.write(ws.SelectedEvent{
		Event:  ws.EventSelected,
		Option: *req.Option,
		Answer: s.session.Selected(),
	})
}

func (s *screen) handleNext(ctx context.Context) {
	index, answer := s.session.Index(), s.session.Selected()

	correct, err := s.session.Next()
	if errors.Is(err, quiz.ErrNoAnswerSelected) {
		s.notice(quiz.NoticeSelectAnswer)
		return
	}
	if err != nil {
		s.writeError(err.Error())
		return
	}

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := s.recorder.RecordAnswer(recordCtx, model.SessionAnswer{
		SessionID:     s.launch.SessionID,
		QuizID:        s.launch.QuizID,
		QuestionIndex: index,
		Answer:        answer,
		Correct:       correct,
	}); err != nil {
		s.log.Error().Err(err).Int("question_index", index).Msg("Queue answer failed")
	}

	if !s.session.Finished() {
		s.sendQuestion()
	}
}

// handleMotion feeds the shake detector. The listener is gone once the
// result is shown.
func (s *screen) handleMotion(req ws.RequestPayload) {
	if s.session.Finished() {
		return
	}

	switch s.shake.Detect(quiz.MotionSample{X: req.X, Y: req.Y, Z: req.Z}) {
	case quiz.DirectionRight:
		s.navigate(s.session.ShakeRight(), quiz.NoticeNextQuestion, quiz.NoticeLastQuestion)
	case quiz.DirectionLeft:
		s.navigate(s.session.ShakeLeft(), quiz.NoticePrevQuestion, quiz.NoticeFirstQuestion)
	}
}

func (s *screen) navigate(err error, moved, clamped string) {
	if err != nil {
		s.notice(clamped)
		return
	}
	s.notice(moved)
	s.sendQuestion()
}

func (s *screen) finish(ctx context.Context) {
	s.reported = true
	if s.countdown != nil {
		s.countdown.Stop()
	}

	res := s.session.Result()
	s.write(ws.FinishedEvent{
		Event:    ws.EventFinished,
		Result:   res,
		Title:    quiz.ResultTitle(res.Passed),
		Subtitle: quiz.ResultSubtitle(res.Score, res.Total),
	})

	s.log.Info().
		Int("score", res.Score).
		Int("total", res.Total).
		Int("percentage", res.Percentage).
		Bool("passed", res.Passed).
		Str("reason", string(res.Reason)).
		Msg("Quiz complete")

	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := s.recorder.Record(recordCtx, s.launch, res); err != nil {
		s.log.Error().Err(err).Msg("Queue result failed")
	}
}

func (s *screen) sendQuestion() {
	view, ok := s.session.Current()
	if !ok {
		return
	}
	s.write(ws.QuestionEvent{Event: ws.EventQuestion, View: view})
}

func (s *screen) notice(msg string) {
	if err := ws.WriteNotice(s.conn, msg); err != nil {
		s.log.Debug().Err(err).Msg("Write notice failed")
	}
}

func (s *screen) writeError(msg string) {
	if err := ws.WriteError(s.conn, msg); err != nil {
		s.log.Debug().Err(err).Msg("Write error failed")
	}
}

func (s *screen) write(v interface{}) {
	if err := ws.WriteTyped(s.conn, v); err != nil {
		s.log.Debug().Err(err).Msg("Write failed")
	}
}
