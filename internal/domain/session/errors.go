package session

import "errors"

// ErrSessionNotFound is returned by repositories for an unknown token.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnauthenticated indicates the request carries no usable session.
var ErrUnauthenticated = errors.New("unauthenticated")
