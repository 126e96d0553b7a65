package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionStore keeps authenticated sessions in memory. Tokens are
// opaque UUIDs handed to clients in an HTTP-only cookie; a background
// goroutine evicts expired entries.
type SessionStore struct {
	mu           sync.Mutex
	sessions     map[string]session
	ttl          time.Duration
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type session struct {
	userID    int64
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration, cleanupInterval time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}

	s := &SessionStore{
		sessions:    make(map[string]session),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}
	go s.startCleanup(cleanupInterval)
	return s
}

// Create issues a new session token for the user.
func (s *SessionStore) Create(userID int64) string {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session{
		userID:    userID,
		expiresAt: time.Now().Add(s.ttl),
	}
	return token
}

// Resolve returns the user ID behind a token, or false when the token
// is unknown or has expired.
func (s *SessionStore) Resolve(token string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return 0, false
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, false
	}
	return sess.userID, true
}

// Revoke removes a session. Revoking an unknown token is a no-op.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// ActiveSessions returns the number of currently tracked sessions.
func (s *SessionStore) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Stop shuts down the cleanup goroutine.
func (s *SessionStore) Stop() {
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
	})
}

func (s *SessionStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *SessionStore) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, token)
		}
	}
}
