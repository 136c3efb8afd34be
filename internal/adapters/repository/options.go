package repository

import "time"

// SessionOption applies a configuration option to the SessionStore.
type SessionOption func(*SessionStore)

// WithMaxSessions bounds the number of live sessions. When full, creating a
// session evicts the least recently used one. maxSize <= 0 means unbounded.
func WithMaxSessions(maxSize int) SessionOption {
	return func(s *SessionStore) {
		s.maxSize = maxSize
	}
}

// WithSessionTTL sets how long a session may stay idle before Sweep drops it.
// Zero disables expiry.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(s *SessionStore) {
		if ttl >= 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the uuid-based session id generator.
func WithIDGenerator(gen func() string) SessionOption {
	return func(s *SessionStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}
