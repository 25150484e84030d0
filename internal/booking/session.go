// Package booking hosts booking wizards as server-side sessions and runs the
// side effects of confirming one.
package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wolfman30/luxe-salon/internal/wizard"
)

// DefaultSessionTTL is how long an untouched session is kept.
const DefaultSessionTTL = 2 * time.Hour

var (
	ErrSessionNotFound   = errors.New("booking: session not found")
	ErrPaymentInProgress = errors.New("booking: payment is being processed")
	ErrPaymentRequired   = errors.New("booking: submit payment to confirm the booking")
)

// Session is one client's wizard.
type Session struct {
	ID         string       `json:"id"`
	State      wizard.State `json:"state"`
	Processing bool         `json:"processing"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// SessionStore persists sessions. Implementations return ErrSessionNotFound for
// unknown or expired ids and never hand out shared mutable copies.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// InMemorySessionStore keeps sessions in process memory. Expired sessions are
// dropped when read.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &InMemorySessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *InMemorySessionStore) Save(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return errors.New("booking: session id required")
	}
	s.mu.Lock()
	s.sessions[session.ID] = *session
	s.mu.Unlock()
	return nil
}

func (s *InMemorySessionStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.expired(session) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *InMemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Sweep removes every expired session and reports how many were dropped.
func (s *InMemorySessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for id, session := range s.sessions {
		if s.expired(session) {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

func (s *InMemorySessionStore) expired(session Session) bool {
	return s.now().Sub(session.UpdatedAt) > s.ttl
}

var _ SessionStore = (*InMemorySessionStore)(nil)
