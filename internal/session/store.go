package session

import (
	"context"
	"time"
)

// Store defines the interface for session persistence
type Store interface {
	Create(ctx context.Context, userID string, expiresAt time.Time) (*Session, error)
	// Get returns ErrSessionNotFound when no record exists for id.
	Get(ctx context.Context, id string) (*Session, error)
	// Extend moves expires_at forward. It never shortens a session.
	Extend(ctx context.Context, id string, expiresAt time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// UserStore resolves user identities for validated sessions
type UserStore interface {
	// GetUser returns ErrUserNotFound when no user exists for id.
	GetUser(ctx context.Context, id string) (*User, error)
}
