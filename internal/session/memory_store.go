package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is a thread-safe in-memory Store. Sessions are lost on
// restart; it backs local development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]Session
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]Session)}
}

// Put stores s as-is, replacing any session with the same id
func (s *MemoryStore) Put(sess Session) {
	sess.Fresh = false
	s.mu.Lock()
	s.data[sess.ID] = sess
	s.mu.Unlock()
}

// Create stores a new session with a random id
func (s *MemoryStore) Create(_ context.Context, userID string, expiresAt time.Time) (*Session, error) {
	sess := Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	s.Put(sess)
	return &sess, nil
}

// Get returns a copy of the stored session
func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.data[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// Extend moves the expiry forward, never backward
func (s *MemoryStore) Extend(_ context.Context, id string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.data[id]
	if !ok {
		return ErrSessionNotFound
	}
	if expiresAt.After(sess.ExpiresAt) {
		sess.ExpiresAt = expiresAt
		s.data[id] = sess
	}
	return nil
}

// Delete removes a session
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
	return nil
}

// DeleteByUser removes every session owned by userID
func (s *MemoryStore) DeleteByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.data {
		if sess.UserID == userID {
			delete(s.data, id)
		}
	}
	return nil
}

// DeleteExpired removes sessions whose expiry is at or before now
func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sess := range s.data {
		if !now.Before(sess.ExpiresAt) {
			delete(s.data, id)
			n++
		}
	}
	return n, nil
}

// MemoryUserStore is an in-memory UserStore
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]User
}

var _ UserStore = (*MemoryUserStore)(nil)

// NewMemoryUserStore creates a user store seeded with users
func NewMemoryUserStore(users ...User) *MemoryUserStore {
	s := &MemoryUserStore{users: make(map[string]User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

// Put adds or replaces a user
func (s *MemoryUserStore) Put(u User) {
	s.mu.Lock()
	s.users[u.ID] = u
	s.mu.Unlock()
}

// Remove deletes a user
func (s *MemoryUserStore) Remove(id string) {
	s.mu.Lock()
	delete(s.users, id)
	s.mu.Unlock()
}

// GetUser returns the stored user or ErrUserNotFound
func (s *MemoryUserStore) GetUser(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	u, ok := s.users[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}
