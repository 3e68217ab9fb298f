package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	domain "github.com/bryanwahyu/image-evaluator/internal/domain/session"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// EnsureSchema creates the mock_sessions table when missing
func (r *SessionRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS mock_sessions (
  token      TEXT        PRIMARY KEY,
  user_id    TEXT        NOT NULL,
  user_name  TEXT        NOT NULL,
  user_email TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
);`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Save inserts or refreshes a session
func (r *SessionRepository) Save(ctx context.Context, s *domain.Session) error {
	const q = `
INSERT INTO mock_sessions
  (token, user_id, user_name, user_email, created_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (token) DO UPDATE SET
  user_id=EXCLUDED.user_id,
  user_name=EXCLUDED.user_name,
  user_email=EXCLUDED.user_email;
`
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		string(s.Token),
		stringOrDash(s.User.ID),
		stringOrDash(s.User.Name),
		stringOrDash(s.User.Email),
		createdAt,
	)
	return err
}

// Get returns ErrSessionNotFound for an unknown token
func (r *SessionRepository) Get(ctx context.Context, token domain.Token) (*domain.Session, error) {
	const q = `
SELECT token, user_id, user_name, user_email, created_at
FROM mock_sessions
WHERE token=$1
LIMIT 1;`
	var s domain.Session
	var tok string
	err := r.db.QueryRowContext(ctx, q, string(token)).
		Scan(&tok, &s.User.ID, &s.User.Name, &s.User.Email, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	s.Token = domain.Token(tok)
	return &s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, token domain.Token) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mock_sessions WHERE token=$1;`, string(token))
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
