package session

import "context"

// Repository port for persisting mock sessions
type Repository interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, token Token) (*Session, error)
	Delete(ctx context.Context, token Token) error
}
