package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/image-evaluator/internal/application"
	domain "github.com/bryanwahyu/image-evaluator/internal/domain/session"
	"github.com/bryanwahyu/image-evaluator/internal/metrics"
)

// Service implements the mock login use-cases.
// Every login signs in as the same configured User.
type Service struct {
	Repo  domain.Repository
	User  domain.User
	Clock application.Clock
	Log   *zap.Logger
}

// Login issues a fresh session for the mock user
func (s *Service) Login(ctx context.Context) (*domain.Session, error) {
	sess := &domain.Session{
		Token:     domain.Token(uuid.New().String()),
		User:      s.User,
		CreatedAt: s.Clock.Now(),
	}
	if err := s.Repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	metrics.SessionsActive.Inc()
	s.logger().Info("mock login", zap.String("user_id", sess.User.ID))
	return sess, nil
}

// Logout forgets the session. Unknown tokens are reported as unauthenticated.
func (s *Service) Logout(ctx context.Context, token domain.Token) error {
	if err := s.Repo.Delete(ctx, token); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrUnauthenticated
		}
		return err
	}
	metrics.SessionsActive.Dec()
	s.logger().Info("mock logout")
	return nil
}

// Current resolves a bearer token to its session.
func (s *Service) Current(ctx context.Context, token domain.Token) (*domain.Session, error) {
	if strings.TrimSpace(string(token)) == "" {
		return nil, domain.ErrUnauthenticated
	}
	sess, err := s.Repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}
	return sess, nil
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
