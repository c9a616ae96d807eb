// Package quiz holds the quiz-session state machine: a linear walk over a
// fixed question set with per-question answer scoring, coin accrual, and a
// single coin flush when the session completes. It has no dependency on any
// UI or transport; the server side only sees the final add-coins call.
package quiz

import (
	"context"
	"errors"
	"math"
)

type State int

const (
	// StateLoading is the initial state, before a question set is loaded.
	StateLoading State = iota
	// StateReady means questions are loaded and the session can begin.
	StateReady
	// StateEmpty is terminal: the filter matched no questions. Distinct
	// from StateComplete, which requires playing through a non-empty set.
	StateEmpty
	// StateAnswering means the current question is shown and unanswered.
	StateAnswering
	// StateAnswered means the current question is locked in; only Next
	// moves the session forward.
	StateAnswered
	// StateComplete is terminal: every question was answered.
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateEmpty:
		return "empty"
	case StateAnswering:
		return "answering"
	case StateAnswered:
		return "answered"
	case StateComplete:
		return "complete"
	}
	return "unknown"
}

var (
	ErrNotLoading      = errors.New("quiz: questions already loaded")
	ErrNotReady        = errors.New("quiz: session is not ready")
	ErrNotAnswering    = errors.New("quiz: no question awaiting an answer")
	ErrAlreadyAnswered = errors.New("quiz: question already answered")
	ErrNotAnswered     = errors.New("quiz: current question not answered yet")
	ErrUnknownOption   = errors.New("quiz: option is not part of the question")
)

// Question is the slice of a stored question the session needs.
type Question struct {
	ID      string
	Text    string
	Options []string
	Answer  string
	Coins   int
}

// CoinReporter posts accrued coins to the server and returns the
// authoritative new balance.
type CoinReporter interface {
	AddCoins(ctx context.Context, coins int) (int, error)
}

// Session walks a fixed, ordered question set. The zero value is not usable;
// call New.
type Session struct {
	questions []Question
	state     State
	current   int
	selected  string
	correct   int
	coins     int
	flushed   bool
	balance   int
	reporter  CoinReporter
}

// New returns a session in the loading state. reporter may be nil, in which
// case completion skips the coin flush.
func New(reporter CoinReporter) *Session {
	return &Session{state: StateLoading, reporter: reporter}
}

// Load installs the fetched question set. An empty set moves the session to
// the terminal empty state instead of ready.
func (s *Session) Load(questions []Question) error {
	if s.state != StateLoading {
		return ErrNotLoading
	}
	s.questions = questions
	if len(questions) == 0 {
		s.state = StateEmpty
		return nil
	}
	s.state = StateReady
	return nil
}

// Begin starts play at the first question.
func (s *Session) Begin() error {
	if s.state != StateReady {
		return ErrNotReady
	}
	s.state = StateAnswering
	return nil
}

// Answer locks in the option for the current question. The first submission
// wins: once a question is answered, further calls fail without touching
// score or coins. Scoring is exact string equality with the stored answer.
func (s *Session) Answer(option string) error {
	if s.state == StateAnswered {
		return ErrAlreadyAnswered
	}
	if s.state != StateAnswering {
		return ErrNotAnswering
	}

	q := s.questions[s.current]
	if !hasOption(q.Options, option) {
		return ErrUnknownOption
	}

	s.selected = option
	s.state = StateAnswered
	if option == q.Answer {
		s.correct++
		s.coins += q.Coins
	}
	return nil
}

// Next advances past an answered question. On the last question it moves
// to complete and, when coins were earned, reports them exactly once; the
// server's returned total becomes the session balance. The flush is
// at-most-once even when the report fails.
func (s *Session) Next(ctx context.Context) error {
	if s.state != StateAnswered {
		return ErrNotAnswered
	}

	if s.current+1 < len(s.questions) {
		s.current++
		s.selected = ""
		s.state = StateAnswering
		return nil
	}

	s.state = StateComplete
	if s.coins > 0 && s.reporter != nil && !s.flushed {
		s.flushed = true
		balance, err := s.reporter.AddCoins(ctx, s.coins)
		if err != nil {
			return err
		}
		s.balance = balance
	}
	return nil
}

// Restart rewinds to ready with the same question set and everything else
// zeroed, so the set can be replayed (and re-flushed) without a refetch.
func (s *Session) Restart() error {
	if s.state == StateLoading || s.state == StateEmpty {
		return ErrNotReady
	}
	s.current = 0
	s.selected = ""
	s.correct = 0
	s.coins = 0
	s.flushed = false
	s.balance = 0
	s.state = StateReady
	return nil
}

func (s *Session) State() State { return s.state }

// Current returns the question being played and its position.
func (s *Session) Current() (Question, int) {
	if s.state != StateAnswering && s.state != StateAnswered {
		return Question{}, -1
	}
	return s.questions[s.current], s.current
}

// Selected returns the locked-in option for the current question.
func (s *Session) Selected() (string, bool) {
	if s.state != StateAnswered {
		return "", false
	}
	return s.selected, true
}

func (s *Session) Len() int          { return len(s.questions) }
func (s *Session) CorrectCount() int { return s.correct }
func (s *Session) Coins() int        { return s.coins }
func (s *Session) Flushed() bool     { return s.flushed }

// Balance is the server-reported total after the completion flush; zero
// until then.
func (s *Session) Balance() int { return s.balance }

// Percentage is the display score: round(100 * correct / total). Never
// persisted.
func (s *Session) Percentage() int {
	if len(s.questions) == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.correct) / float64(len(s.questions))))
}

func hasOption(options []string, opt string) bool {
	for _, o := range options {
		if o == opt {
			return true
		}
	}
	return false
}
