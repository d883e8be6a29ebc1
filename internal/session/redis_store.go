package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store using Redis. Each session is a JSON record
// whose key TTL tracks expires_at; a per-user set indexes session ids.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing client. The caller owns the client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}

func userSessionsKey(userID string) string {
	return fmt.Sprintf("user_sessions:%s", userID)
}

// Create stores a new session record and indexes it under its owner
func (s *RedisStore) Create(ctx context.Context, userID string, expiresAt time.Time) (*Session, error) {
	sess := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := s.put(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.client.SAdd(ctx, userSessionsKey(userID), sess.ID).Err(); err != nil {
		return nil, fmt.Errorf("failed to index session: %w", err)
	}
	return sess, nil
}

// Get loads a session record by id
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &sess, nil
}

// Extend rewrites the record with a later expiry and matching TTL. The write
// only applies while the key still exists, so a session deleted after the
// read stays deleted.
func (s *RedisStore) Extend(ctx context.Context, id string, expiresAt time.Time) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !expiresAt.After(sess.ExpiresAt) {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s: expires_at must be in the future", id)
	}
	sess.ExpiresAt = expiresAt

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	err = s.client.SetArgs(ctx, sessionKey(id), data, redis.SetArgs{
		Mode: "XX",
		TTL:  ttl,
	}).Err()
	if errors.Is(err, redis.Nil) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to extend session: %w", err)
	}
	return nil
}

// Delete removes a session and its index entry
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, userSessionsKey(sess.UserID), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteByUser removes every indexed session of userID
func (s *RedisStore) DeleteByUser(ctx context.Context, userID string) error {
	ids, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	pipe := s.client.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, sessionKey(id))
	}
	pipe.Del(ctx, userSessionsKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}
	return nil
}

// DeleteExpired prunes the per-user indexes. Session records themselves are
// expired by Redis through their TTL.
func (s *RedisStore) DeleteExpired(ctx context.Context, _ time.Time) (int64, error) {
	var cursor uint64
	var removed int64

	for {
		keys, next, err := s.client.Scan(ctx, cursor, "user_sessions:*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to scan session indexes: %w", err)
		}

		for _, key := range keys {
			ids, err := s.client.SMembers(ctx, key).Result()
			if err != nil {
				return removed, fmt.Errorf("failed to read session index: %w", err)
			}
			for _, id := range ids {
				n, err := s.client.Exists(ctx, sessionKey(id)).Result()
				if err != nil {
					return removed, fmt.Errorf("failed to check session: %w", err)
				}
				if n > 0 {
					continue
				}
				if err := s.client.SRem(ctx, key, id).Err(); err != nil {
					return removed, fmt.Errorf("failed to prune session index: %w", err)
				}
				removed++
			}
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}
	return removed, nil
}

func (s *RedisStore) put(ctx context.Context, sess *Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s: expires_at must be in the future", sess.ID)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}
