// Package session implements the session authentication lifecycle: mapping a
// session cookie to a user identity, validating it once per request, silently
// renewing sessions inside the freshness window and instructing the response
// boundary to clear stale cookies.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultLifetime is how long a session lives after creation or renewal
	DefaultLifetime = 30 * 24 * time.Hour
	// DefaultRenewThreshold renews a session once less than this remains
	DefaultRenewThreshold = DefaultLifetime / 2
)

// Policy holds the session lifetime parameters
type Policy struct {
	Lifetime       time.Duration
	RenewThreshold time.Duration
}

// DefaultPolicy renews when less than half the lifetime remains
func DefaultPolicy() Policy {
	return Policy{
		Lifetime:       DefaultLifetime,
		RenewThreshold: DefaultRenewThreshold,
	}
}

// Validate checks that the policy is usable
func (p Policy) Validate() error {
	if p.Lifetime <= 0 {
		return errors.New("session lifetime must be positive")
	}
	if p.RenewThreshold <= 0 || p.RenewThreshold >= p.Lifetime {
		return fmt.Errorf("renew threshold %s must be between 0 and lifetime %s", p.RenewThreshold, p.Lifetime)
	}
	return nil
}

// needsRenewal reports whether a session expiring at expiresAt is inside the
// renewal window at now.
func (p Policy) needsRenewal(expiresAt, now time.Time) bool {
	return expiresAt.Sub(now) < p.RenewThreshold
}

// Manager is the lookup layer between the validator and the store. It owns
// the lifetime policy and computes the freshness signal.
type Manager struct {
	store  Store
	policy Policy
	now    func() time.Time
}

// NewManager creates a new session manager
func NewManager(store Store, policy Policy) *Manager {
	return &Manager{
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

// Policy returns the lifetime policy in effect
func (m *Manager) Policy() Policy {
	return m.policy
}

// Create starts a new session for userID
func (m *Manager) Create(ctx context.Context, userID string) (*Session, error) {
	s, err := m.store.Create(ctx, userID, m.now().Add(m.policy.Lifetime))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s, nil
}

// Lookup fetches the stored session and marks it Fresh when it falls inside
// the renewal window. Expiry is left to the caller.
func (m *Manager) Lookup(ctx context.Context, id string) (*Session, error) {
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := m.now()
	s.Fresh = now.Before(s.ExpiresAt) && m.policy.needsRenewal(s.ExpiresAt, now)
	return s, nil
}

// Renew extends s to a full lifetime from now and persists the extension
func (m *Manager) Renew(ctx context.Context, s *Session) error {
	expiresAt := m.now().Add(m.policy.Lifetime)
	if err := m.store.Extend(ctx, s.ID, expiresAt); err != nil {
		return fmt.Errorf("failed to extend session: %w", err)
	}
	if expiresAt.After(s.ExpiresAt) {
		s.ExpiresAt = expiresAt
	}
	return nil
}

// Invalidate removes a session
func (m *Manager) Invalidate(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// InvalidateUser removes every session owned by userID
func (m *Manager) InvalidateUser(ctx context.Context, userID string) error {
	return m.store.DeleteByUser(ctx, userID)
}

// Sweep deletes sessions that have already expired
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, m.now())
}
