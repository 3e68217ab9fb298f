package session

import "time"

// Token identifier type
type Token string

// User is the mocked account behind a login.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session represents a mock login, stored instead of the browser's local storage
type Session struct {
	Token     Token     `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}
