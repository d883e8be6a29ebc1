package session

import "errors"

var (
	// ErrSessionNotFound is returned when a session is not found
	ErrSessionNotFound = errors.New("session not found")
	// ErrUserNotFound is returned when the user owning a session is not found
	ErrUserNotFound = errors.New("user not found")
)
