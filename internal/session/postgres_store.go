package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dashboard/internal/database"
)

// PostgresStore implements Store on the sessions table
type PostgresStore struct {
	db database.Querier
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a PostgreSQL-backed session store
func NewPostgresStore(db database.Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts a new session row
func (s *PostgresStore) Create(ctx context.Context, userID string, expiresAt time.Time) (*Session, error) {
	sess := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`,
		sess.ID, sess.UserID, sess.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return sess, nil
}

// Get loads a session by id
func (s *PostgresStore) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.QueryRow(ctx,
		`SELECT id, user_id, expires_at FROM sessions WHERE id = $1`, id).
		Scan(&sess.ID, &sess.UserID, &sess.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &sess, nil
}

// Extend moves expires_at forward, never backward
func (s *PostgresStore) Extend(ctx context.Context, id string, expiresAt time.Time) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE sessions SET expires_at = GREATEST(expires_at, $2) WHERE id = $1`,
		id, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to extend session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session row
func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteByUser removes every session owned by userID
func (s *PostgresStore) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

// DeleteExpired removes sessions whose expiry is at or before now
func (s *PostgresStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
