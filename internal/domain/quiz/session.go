package quiz

import (
	"slices"

	"github.com/okian/moviesongs/internal/domain/model"
)

// Phase is the state of a Session.
type Phase string

// Session phases.
const (
	PhaseNoQuestion     Phase = "no_question"
	PhaseQuestionActive Phase = "question_active"
	PhaseAnswerRevealed Phase = "answer_revealed"
	PhaseUnavailable    Phase = "unavailable"
)

// Answer is the outcome of the first selection for a question.
type Answer struct {
	Selected string `json:"selected"`
	Correct  bool   `json:"correct"`
}

// State is a snapshot of a Session.
type State struct {
	Phase          Phase     `json:"phase"`
	Question       *Question `json:"question,omitempty"`
	Answer         *Answer   `json:"answer,omitempty"`
	QuestionNumber int       `json:"question_number"`
	Score          int       `json:"score"`
	Answered       int       `json:"answered"`
}

// Session runs one player's quiz over an eligible pool. It is not safe for
// concurrent use; callers serialize access.
type Session struct {
	pool  []model.Song
	rand  Rand
	phase Phase

	question *Question
	answer   *Answer
	number   int
	score    int
	answered int
}

// SessionOption applies a configuration option to a Session.
type SessionOption func(*Session)

// WithRand sets the randomness source.
func WithRand(r Rand) SessionOption {
	return func(s *Session) {
		if r != nil {
			s.rand = r
		}
	}
}

// NewSession creates a session over the catalog's eligible songs.
func NewSession(cat *model.Catalog, opts ...SessionOption) *Session {
	s := &Session{
		pool:  cat.Eligible(),
		phase: PhaseNoQuestion,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = NewRand(0)
	}
	return s
}

// Start generates the first question. If no song has a movie appearance the
// session becomes unavailable and ErrNoEligibleQuestions is returned.
// Calling Start on a session that already started returns its current state.
func (s *Session) Start() (State, error) {
	switch s.phase {
	case PhaseUnavailable:
		return s.State(), ErrNoEligibleQuestions
	case PhaseNoQuestion:
	default:
		return s.State(), nil
	}
	if err := s.generate(); err != nil {
		return s.State(), err
	}
	s.number = 1
	return s.State(), nil
}

// Submit selects option for the current question. Only the first selection
// per question counts; later calls return the recorded answer unchanged.
// An option the question does not offer returns ErrUnknownOption and leaves
// the session as it was.
func (s *Session) Submit(option string) (Answer, error) {
	switch s.phase {
	case PhaseAnswerRevealed:
		return *s.answer, nil
	case PhaseQuestionActive:
	default:
		return Answer{}, ErrNoActiveQuestion
	}
	if !slices.Contains(s.question.Options, option) {
		return Answer{}, ErrUnknownOption
	}

	a := Answer{Selected: option, Correct: option == s.question.CorrectAnswer}
	s.answer = &a
	s.answered++
	if a.Correct {
		s.score++
	}
	s.phase = PhaseAnswerRevealed
	return a, nil
}

// Next moves to a fresh question after the current one was answered.
// Score and answered count carry over.
func (s *Session) Next() (State, error) {
	switch s.phase {
	case PhaseAnswerRevealed:
	case PhaseQuestionActive:
		return s.State(), ErrAnswerPending
	case PhaseUnavailable:
		return s.State(), ErrNoEligibleQuestions
	default:
		return s.State(), ErrNoActiveQuestion
	}
	if err := s.generate(); err != nil {
		return s.State(), err
	}
	s.number++
	return s.State(), nil
}

// State returns a snapshot that shares no mutable memory with s.
func (s *Session) State() State {
	st := State{
		Phase:          s.phase,
		QuestionNumber: s.number,
		Score:          s.score,
		Answered:       s.answered,
	}
	if s.question != nil {
		q := *s.question
		q.Options = append([]string(nil), q.Options...)
		st.Question = &q
	}
	if s.answer != nil {
		a := *s.answer
		st.Answer = &a
	}
	return st
}

// Phase returns the current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) generate() error {
	q, err := Generate(s.pool, s.rand)
	if err != nil {
		s.phase = PhaseUnavailable
		s.question = nil
		s.answer = nil
		return err
	}
	s.question = &q
	s.answer = nil
	s.phase = PhaseQuestionActive
	return nil
}
