package quiz

import (
	"errors"
	"fmt"

	"github.com/stemsi/voxmind-backend/internal/model"
)

// Session errors. Handlers turn them into notices for the user.
var (
	ErrNoAnswerSelected    = errors.New("no answer selected")
	ErrSessionFinished     = errors.New("session already finished")
	ErrOptionNotSelectable = errors.New("option is not selectable")
	ErrFirstQuestion       = errors.New("already at the first question")
	ErrLastQuestion        = errors.New("no more questions")
)

// State is the sequencing state of a session.
type State string

const (
	StateAnswering State = "ANSWERING"
	StateFinished  State = "FINISHED"
)

// Session is one traversal of a quiz's questions. It is not safe for
// concurrent use; a single goroutine owns it for the lifetime of the screen.
type Session struct {
	questions []model.Question
	index     int
	selected  string
	score     int
	state     State
	reason    model.FinishReason
}

// View is what the quiz screen shows for the current question.
type View struct {
	Index     int                                 `json:"index"`
	Total     int                                 `json:"total"`
	Indicator string                              `json:"indicator"`
	Progress  int                                 `json:"progress"`
	Question  string                              `json:"question"`
	Options   [model.OptionSlots]model.OptionSlot `json:"options"`
	Selected  string                              `json:"selected"`
}

// NewSession starts a session at the first question. A quiz without
// questions is finished immediately.
func NewSession(questions []model.Question) *Session {
	s := &Session{
		questions: append([]model.Question(nil), questions...),
		state:     StateAnswering,
	}
	if len(s.questions) == 0 {
		s.finish(model.FinishEmpty)
	}
	return s
}

func (s *Session) State() State { return s.state }
func (s *Session) Index() int { return s.index }
func (s *Session) Score() int { return s.score }
func (s *Session) Selected() string { return s.selected }
func (s *Session) Total() int { return len(s.questions) }
func (s *Session) Finished() bool { return s.state == StateFinished }

// Select records the text of the option in the given slot as the answer.
func (s *Session) Select(option int) error {
	if s.Finished() {
		return ErrSessionFinished
	}
	opts := s.questions[s.index].Options
	if option < 0 || option >= model.OptionSlots || option >= len(opts) {
		return fmt.Errorf("%w: %d", ErrOptionNotSelectable, option)
	}
	s.selected = opts[option]
	return nil
}

// Next advances past the current question, scoring the selection when its
// text equals the correct text. It reports whether the answer was correct.
func (s *Session) Next() (bool, error) {
	if s.Finished() {
		return false, ErrSessionFinished
	}
	if s.selected == "" {
		return false, ErrNoAnswerSelected
	}

	correct := s.selected == s.questions[s.index].Correct
	if correct {
		s.score++
	}
	s.index++
	s.selected = ""

	if s.index >= len(s.questions) {
		s.finish(model.FinishCompleted)
	}
	return correct, nil
}

// ShakeRight moves to the next question without scoring or checking the
// selection. It never finishes the session.
func (s *Session) ShakeRight() error {
	if s.Finished() {
		return ErrSessionFinished
	}
	if s.index >= len(s.questions)-1 {
		return ErrLastQuestion
	}
	s.index++
	s.selected = ""
	return nil
}

// ShakeLeft moves to the previous question without scoring.
func (s *Session) ShakeLeft() error {
	if s.Finished() {
		return ErrSessionFinished
	}
	if s.index == 0 {
		return ErrFirstQuestion
	}
	s.index--
	s.selected = ""
	return nil
}

// Expire finishes the session with the score accumulated so far. It returns
// false if the session had already finished.
func (s *Session) Expire() bool {
	if s.Finished() {
		return false
	}
	s.finish(model.FinishTimeout)
	return true
}

// Current returns the view of the current question. ok is false once the
// session has finished.
func (s *Session) Current() (View, bool) {
	if s.Finished() {
		return View{}, false
	}
	q := s.questions[s.index]
	total := len(s.questions)
	return View{
		Index:     s.index,
		Total:     total,
		Indicator: fmt.Sprintf("Question %d / %d", s.index+1, total),
		Progress:  s.index * 100 / total,
		Question:  q.Question,
		Options:   q.Slots(),
		Selected:  s.selected,
	}, true
}

// Result summarises the session. Before it finishes the reason is empty.
func (s *Session) Result() model.Result {
	total := len(s.questions)
	pct := Percentage(s.score, total)
	return model.Result{
		Score:      s.score,
		Total:      total,
		Percentage: pct,
		Passed:     Passed(pct),
		Reason:     s.reason,
	}
}

func (s *Session) finish(reason model.FinishReason) {
	s.state = StateFinished
	s.reason = reason
	s.selected = ""
}
