package piholesdk

import (
	"errors"
	"sync"
	"time"
)

// ErrIncompleteSession is returned when only one half of the sid/csrf pair is
// supplied to SessionStore.Set.
var ErrIncompleteSession = errors.New("piholesdk: session id and csrf token must be set together")

// Session is a snapshot of the Pi-hole session credentials. The zero value is
// the anonymous session.
type Session struct {
	// ID is sent as the X-FTL-SID header.
	ID string

	// CSRF is sent as the X-FTL-CSRF header.
	CSRF string

	// ExpiresAt is when Pi-hole will consider the session stale if unused.
	// Zero when the server did not report a validity.
	ExpiresAt time.Time
}

// Authenticated reports whether the session carries credentials.
func (s Session) Authenticated() bool {
	return s.ID != "" && s.CSRF != ""
}

// SessionStore holds the current session of a Client. Both tokens are always
// updated together under the lock so readers never see a torn pair.
type SessionStore struct {
	mu      sync.RWMutex
	current Session
}

// NewSessionStore returns an anonymous SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Set replaces the session. validity is the lifetime in seconds reported by
// Pi-hole; non-positive values leave ExpiresAt zero.
func (s *SessionStore) Set(sid, csrf string, validity int) error {
	if (sid == "") != (csrf == "") {
		return ErrIncompleteSession
	}

	next := Session{ID: sid, CSRF: csrf}
	if sid != "" && validity > 0 {
		next.ExpiresAt = time.Now().Add(time.Duration(validity) * time.Second)
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return nil
}

// Clear resets the store to the anonymous session.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	s.current = Session{}
	s.mu.Unlock()
}

// Current returns a copy of the session.
func (s *SessionStore) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
