package repository

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/moviesongs/internal/domain/quiz"
	"github.com/okian/moviesongs/pkg/metrics"
)

// sessionEntry pairs a session with the lock that serializes its use.
type sessionEntry struct {
	id       string
	mu       sync.Mutex
	session  *quiz.Session
	lastUsed time.Time
}

// SessionStore is an in-memory, LRU-bounded Sessions implementation.
// The list front holds the most recently used entry.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	newID   func() string
}

// NewSessionStore creates a session store with configuration options.
func NewSessionStore(opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: 10_000,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores sess under a fresh id, evicting the least recently used
// session if the store is full.
func (s *SessionStore) Create(_ context.Context, sess *quiz.Session) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	if el, taken := s.entries[id]; taken {
		s.removeElement(el)
	}

	evicted := 0
	for s.maxSize > 0 && s.order.Len() >= s.maxSize {
		s.removeElement(s.order.Back())
		evicted++
	}
	metrics.RecordQuizSessionsEvicted(evicted)

	e := &sessionEntry{id: id, session: sess, lastUsed: s.now()}
	s.entries[id] = s.order.PushFront(e)
	return id, nil
}

// With runs fn while holding the session's lock.
func (s *SessionStore) With(_ context.Context, id string, fn func(*quiz.Session) error) error {
	s.mu.Lock()
	el, ok := s.entries[id]
	if !ok {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	e := el.Value.(*sessionEntry)
	if s.expired(e) {
		s.removeElement(el)
		s.mu.Unlock()
		metrics.RecordQuizSessionsEvicted(1)
		return ErrSessionNotFound
	}
	e.lastUsed = s.now()
	s.order.MoveToFront(el)
	s.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// Delete drops a session.
func (s *SessionStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.entries[id]; ok {
		s.removeElement(el)
	}
}

// Len returns the number of live sessions, expired ones included until the
// next Sweep.
func (s *SessionStore) Len(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (s *SessionStore) Sweep(_ context.Context) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	// Oldest entries sit at the back; stop at the first live one.
	for el := s.order.Back(); el != nil; {
		e := el.Value.(*sessionEntry)
		if !s.expired(e) {
			break
		}
		prev := el.Prev()
		s.removeElement(el)
		removed++
		el = prev
	}
	metrics.RecordQuizSessionsEvicted(removed)
	return removed
}

// expired must be called with s.mu held.
func (s *SessionStore) expired(e *sessionEntry) bool {
	return s.ttl > 0 && s.now().Sub(e.lastUsed) > s.ttl
}

// removeElement must be called with s.mu held.
func (s *SessionStore) removeElement(el *list.Element) {
	if el == nil {
		return
	}
	e := s.order.Remove(el).(*sessionEntry)
	delete(s.entries, e.id)
}
