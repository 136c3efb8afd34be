// Package service wires the catalog, the search engine and quiz sessions
// into the operations served by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	repository "github.com/okian/moviesongs/internal/adapters/repository"
	"github.com/okian/moviesongs/internal/domain/model"
	"github.com/okian/moviesongs/internal/domain/quiz"
	"github.com/okian/moviesongs/internal/domain/search"
	"github.com/okian/moviesongs/pkg/logger"
	"github.com/okian/moviesongs/pkg/metrics"
)

// sweeper is implemented by session stores that expire idle sessions.
type sweeper interface {
	Sweep(ctx context.Context) int
}

// Service implements the API dependencies for the song catalog and quiz.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog  *model.Catalog
	engine   *search.Engine
	sessions repository.Sessions

	// Configuration
	maxSessions int
	sessionTTL  time.Duration
	seed        uint64

	// State
	started  bool
	sessionN atomic.Uint64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog sets the catalog snapshot served for the process lifetime.
func WithCatalog(cat *model.Catalog) Option {
	return func(s *Service) {
		s.catalog = cat
	}
}

// WithMaxSessions bounds the number of live quiz sessions.
func WithMaxSessions(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithSessionTTL sets how long an idle quiz session is kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithSeed makes question generation reproducible. Session n is seeded with
// seed+n. Zero seeds every session from the clock.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithSessions replaces the in-memory session store.
func WithSessions(store repository.Sessions) Option {
	return func(s *Service) {
		if store != nil {
			s.sessions = store
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxSessions: 10_000,
		sessionTTL:  time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the search index and the session store.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.catalog == nil {
		s.catalog = model.NewCatalog(nil)
	}

	s.engine = search.NewEngine(s.catalog)
	if s.sessions == nil {
		s.sessions = repository.NewSessionStore(
			repository.WithMaxSessions(s.maxSessions),
			repository.WithSessionTTL(s.sessionTTL),
		)
	}

	eligible := len(s.catalog.Eligible())
	metrics.UpdateCatalogSize(s.catalog.Len(), s.catalog.MovieCount())
	if eligible == 0 {
		s.logger.Warn(ctx, "catalog has no song with a movie appearance; quiz is unavailable")
	}

	s.started = true
	s.logger.Info(ctx, "catalog service started",
		logger.Int("songs", s.catalog.Len()),
		logger.Int("eligible", eligible),
		logger.Int("maxSessions", s.maxSessions),
		logger.Duration("sessionTTL", s.sessionTTL),
	)
	return nil
}

// Stop marks the service stopped. Live sessions are dropped with the process.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "catalog service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// Search returns songs whose title or artist contains query.
func (s *Service) Search(ctx context.Context, query string) ([]model.Song, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	res := s.engine.Search(query)
	metrics.RecordSearch(len(res))
	s.logger.Debug(ctx, "search", logger.String("query", query), logger.Int("results", len(res)))
	return res, nil
}

// Song returns the catalog entry with the exact title and artist.
func (s *Service) Song(_ context.Context, title, artist string) (model.Song, error) {
	if err := s.ready(); err != nil {
		return model.Song{}, err
	}
	return s.catalog.Find(title, artist)
}

// NewQuiz starts a session and generates its first question. When the
// catalog has no eligible song the returned state is unavailable, the id is
// empty and nothing is stored.
func (s *Service) NewQuiz(ctx context.Context) (string, quiz.State, error) {
	if err := s.ready(); err != nil {
		return "", quiz.State{}, err
	}

	sess := quiz.NewSession(s.catalog, quiz.WithRand(s.nextRand()))
	st, err := sess.Start()
	if errors.Is(err, quiz.ErrNoEligibleQuestions) {
		metrics.RecordQuizUnavailable()
		return "", st, nil
	}
	if err != nil {
		return "", st, err
	}

	id, err := s.sessions.Create(ctx, sess)
	if err != nil {
		return "", quiz.State{}, err
	}
	metrics.RecordQuizSessionCreated()
	metrics.RecordQuizQuestion()
	metrics.UpdateQuizSessionsActive(s.sessions.Len(ctx))

	s.logger.Debug(ctx, "quiz session created", logger.String("session", id))
	return id, st, nil
}

// Quiz returns the current state of session id.
func (s *Service) Quiz(ctx context.Context, id string) (quiz.State, error) {
	if err := s.ready(); err != nil {
		return quiz.State{}, err
	}
	var st quiz.State
	err := s.sessions.With(ctx, id, func(sess *quiz.Session) error {
		st = sess.State()
		return nil
	})
	return st, err
}

// Answer submits option for the current question of session id. Only the
// first submission per question is counted.
func (s *Service) Answer(ctx context.Context, id, option string) (quiz.State, error) {
	if err := s.ready(); err != nil {
		return quiz.State{}, err
	}
	var st quiz.State
	err := s.sessions.With(ctx, id, func(sess *quiz.Session) error {
		first := sess.Phase() == quiz.PhaseQuestionActive
		a, err := sess.Submit(option)
		if err != nil {
			return err
		}
		if first {
			metrics.RecordQuizAnswer(a.Correct)
		}
		st = sess.State()
		return nil
	})
	return st, err
}

// Next advances session id to a fresh question.
func (s *Service) Next(ctx context.Context, id string) (quiz.State, error) {
	if err := s.ready(); err != nil {
		return quiz.State{}, err
	}
	var st quiz.State
	err := s.sessions.With(ctx, id, func(sess *quiz.Session) error {
		var err error
		st, err = sess.Next()
		if err == nil {
			metrics.RecordQuizQuestion()
		}
		return err
	})
	return st, err
}

// SweepSessions drops idle sessions and returns how many were removed.
func (s *Service) SweepSessions(ctx context.Context) int {
	if s.ready() != nil {
		return 0
	}
	sw, ok := s.sessions.(sweeper)
	if !ok {
		return 0
	}
	n := sw.Sweep(ctx)
	metrics.UpdateQuizSessionsActive(s.sessions.Len(ctx))
	if n > 0 {
		s.logger.Debug(ctx, "expired quiz sessions removed", logger.Int("count", n))
	}
	return n
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"maxSessions": s.maxSessions,
		"sessionTTL":  s.sessionTTL.String(),
	}
	if s.started {
		active := s.sessions.Len(context.Background())
		stats["songs"] = s.catalog.Len()
		stats["movies"] = s.catalog.MovieCount()
		stats["eligibleSongs"] = len(s.catalog.Eligible())
		stats["activeSessions"] = active
		metrics.UpdateQuizSessionsActive(active)
	}
	return stats
}

func (s *Service) nextRand() quiz.Rand {
	n := s.sessionN.Add(1)
	if s.seed == 0 {
		return quiz.NewRand(0)
	}
	return quiz.NewRand(s.seed + n)
}
