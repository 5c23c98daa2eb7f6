package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/voxmind-backend/internal/config"
	"github.com/stemsi/voxmind-backend/internal/model"
	"github.com/stemsi/voxmind-backend/internal/quiz"
	"golang.org/x/term"
)

const progressWidth = 20

// screen is the terminal rendering of one quiz session.
type screen struct {
	out       io.Writer
	title     string
	remaining string
	notice    string
	paused    bool
}

// play runs a quiz session on the terminal in raw mode. A session the user
// quits early comes back with an empty finish reason.
func play(ctx context.Context, q *model.Quiz, cfg *config.Config, log zerolog.Logger) (model.Result, error) {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return model.Result{}, fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	keys := make(chan []key, 8)
	go readKeys(os.Stdin, keys)

	session := quiz.NewSession(q.QuestionList)
	shake := quiz.NewShakeDetector(cfg.ShakeThreshold, cfg.ShakeDebounce)
	scr := &screen{out: os.Stdout, title: q.Title, remaining: quiz.FormatRemaining(q.TimeLimit())}

	var (
		ticks   <-chan time.Duration
		expired <-chan struct{}
	)
	if !session.Finished() {
		countdown := quiz.StartCountdown(ctx, q.TimeLimit(), quiz.CountdownInterval)
		defer countdown.Stop()
		ticks, expired = countdown.Ticks(), countdown.Expired()
	}

	scr.render(session)
	for !session.Finished() {
		select {
		case batch, ok := <-keys:
			if !ok {
				return session.Result(), nil
			}
			for _, k := range batch {
				if k == keyQuit {
					return session.Result(), nil
				}
				scr.apply(session, shake, k, cfg.ShakeThreshold)
				if session.Finished() {
					break
				}
			}
		case remaining := <-ticks:
			scr.remaining = quiz.FormatRemaining(remaining)
		case <-expired:
			if session.Expire() {
				log.Debug().Msg("Time limit reached")
			}
		}
		scr.render(session)
	}
	cancel()

	res := session.Result()
	scr.renderResult(res)

	awaitDismiss(keys)
	return res, nil
}

// apply handles one key. Arrow keys stand in for a phone shake and go
// through the same detector.
func (s *screen) apply(session *quiz.Session, shake *quiz.ShakeDetector, k key, threshold float64) {
	s.notice = ""

	switch k {
	case keyOption1, keyOption2, keyOption3, keyOption4:
		if err := session.Select(int(k - keyOption1)); err != nil {
			if errors.Is(err, quiz.ErrOptionNotSelectable) {
				s.notice = "That option is not available"
			}
		}
	case keyNext:
		if _, err := session.Next(); errors.Is(err, quiz.ErrNoAnswerSelected) {
			s.notice = quiz.NoticeSelectAnswer
		}
	case keyRight:
		if shake.Detect(quiz.MotionSample{X: threshold + 1}) == quiz.DirectionRight {
			s.notice = pick(session.ShakeRight(), quiz.NoticeNextQuestion, quiz.NoticeLastQuestion)
		}
	case keyLeft:
		if shake.Detect(quiz.MotionSample{X: -threshold - 1}) == quiz.DirectionLeft {
			s.notice = pick(session.ShakeLeft(), quiz.NoticePrevQuestion, quiz.NoticeFirstQuestion)
		}
	case keyPause:
		if shake.Active() {
			shake.Pause()
		} else {
			shake.Resume()
		}
		s.paused = !shake.Active()
	}
}

func pick(err error, moved, clamped string) string {
	if err != nil {
		return clamped
	}
	return moved
}

func (s *screen) render(session *quiz.Session) {
	view, ok := session.Current()
	if !ok {
		return
	}

	var b strings.Builder
	b.WriteString("\033[H\033[2J")
	fmt.Fprintf(&b, "%s    %s\r\n", s.title, s.remaining)
	filled := view.Progress * progressWidth / 100
	fmt.Fprintf(&b, "%s  [%s%s] %d%%\r\n\r\n",
		view.Indicator,
		strings.Repeat("#", filled),
		strings.Repeat("-", progressWidth-filled),
		view.Progress)
	fmt.Fprintf(&b, "%s\r\n\r\n", view.Question)

	for i, slot := range view.Options {
		marker := " "
		if slot.Selectable && slot.Label == view.Selected {
			marker = ">"
		}
		label := slot.Label
		if !slot.Selectable {
			label = "\033[2m" + label + "\033[0m"
		}
		fmt.Fprintf(&b, " %s [%d] %s\r\n", marker, i+1, label)
	}

	fmt.Fprintf(&b, "\r\n%s\r\n", s.notice)
	shakeHint := "p pause shake"
	if s.paused {
		shakeHint = "p resume shake"
	}
	fmt.Fprintf(&b, "\r\n1-4 select | Enter next | Left/Right shake | %s | q quit\r\n", shakeHint)

	_, _ = io.WriteString(s.out, b.String())
}

func (s *screen) renderResult(res model.Result) {
	var b strings.Builder
	b.WriteString("\033[H\033[2J")
	fmt.Fprintf(&b, "%s\r\n\r\n", s.title)
	fmt.Fprintf(&b, "%s\r\n", quiz.ResultTitle(res.Passed))
	fmt.Fprintf(&b, "%s (%d%%)\r\n", quiz.ResultSubtitle(res.Score, res.Total), res.Percentage)
	if res.Reason == model.FinishTimeout {
		b.WriteString("Time is up.\r\n")
	}
	b.WriteString("\r\nPress Enter to close.\r\n")
	_, _ = io.WriteString(s.out, b.String())
}

// readKeys forwards decoded keypresses until in fails.
func readKeys(in io.Reader, keys chan<- []key) {
	defer close(keys)
	buf := make([]byte, 16)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if decoded := decodeKeys(buf[:n]); len(decoded) > 0 {
				keys <- decoded
			}
		}
		if err != nil {
			return
		}
	}
}
