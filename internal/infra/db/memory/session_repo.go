package memory

import (
	"context"
	"sync"

	domain "github.com/bryanwahyu/image-evaluator/internal/domain/session"
)

// SessionRepository keeps sessions in process memory; they vanish on restart.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[domain.Token]domain.Session
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[domain.Token]domain.Session)}
}

func (r *SessionRepository) Save(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Token] = *s
	return nil
}

func (r *SessionRepository) Get(_ context.Context, token domain.Token) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *SessionRepository) Delete(_ context.Context, token domain.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[token]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(r.sessions, token)
	return nil
}
