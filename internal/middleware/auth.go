package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domain "github.com/bryanwahyu/image-evaluator/internal/domain/session"
)

type contextKey string

const (
	SessionKey contextKey = "session"
)

// SessionResolver looks a bearer token up. The session service implements it.
type SessionResolver interface {
	Current(ctx context.Context, token domain.Token) (*domain.Session, error)
}

// BearerToken extracts the token from "Bearer <token>" or a bare "<token>".
func BearerToken(r *http.Request) domain.Token {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	auth = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return domain.Token(auth)
}

// SessionAuth rejects requests without a live mock session
func SessionAuth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				http.Error(w, "missing Authorization header", http.StatusUnauthorized)
				return
			}

			sess, err := resolver.Current(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					http.Error(w, "invalid or expired session", http.StatusUnauthorized)
					return
				}
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			if rw, ok := w.(*responseWriter); ok {
				rw.userID = sess.User.ID
			}
			ctx := context.WithValue(r.Context(), SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session stored by SessionAuth, or nil
func SessionFromContext(ctx context.Context) *domain.Session {
	if s, ok := ctx.Value(SessionKey).(*domain.Session); ok {
		return s
	}
	return nil
}

// UserIDFromContext returns the signed-in user id, or "" when anonymous
func UserIDFromContext(ctx context.Context) string {
	if s := SessionFromContext(ctx); s != nil {
		return s.User.ID
	}
	return ""
}
