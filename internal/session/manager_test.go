package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		wantErr bool
	}{
		{"default", DefaultPolicy(), false},
		{"zero lifetime", Policy{Lifetime: 0, RenewThreshold: time.Hour}, true},
		{"zero threshold", Policy{Lifetime: time.Hour, RenewThreshold: 0}, true},
		{"threshold equals lifetime", Policy{Lifetime: time.Hour, RenewThreshold: time.Hour}, true},
		{"short", Policy{Lifetime: time.Hour, RenewThreshold: 10 * time.Minute}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func newTestManager(store Store) *Manager {
	m := NewManager(store, DefaultPolicy())
	m.now = func() time.Time { return testNow }
	return m
}

func TestManagerCreate(t *testing.T) {
	m := newTestManager(NewMemoryStore())

	s, err := m.Create(context.Background(), "user_42")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, testNow.Add(DefaultLifetime), s.ExpiresAt)
}

func TestManagerLookupFreshness(t *testing.T) {
	store := NewMemoryStore()
	m := newTestManager(store)
	store.Put(Session{ID: "stale", UserID: "u", ExpiresAt: testNow.Add(time.Hour)})
	store.Put(Session{ID: "young", UserID: "u", ExpiresAt: testNow.Add(DefaultLifetime)})
	store.Put(Session{ID: "dead", UserID: "u", ExpiresAt: testNow.Add(-time.Hour)})

	tests := map[string]bool{"stale": true, "young": false, "dead": false}
	for id, fresh := range tests {
		s, err := m.Lookup(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, fresh, s.Fresh, id)
	}

	_, err := m.Lookup(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerRenew(t *testing.T) {
	store := NewMemoryStore()
	m := newTestManager(store)
	store.Put(Session{ID: "s1", UserID: "u", ExpiresAt: testNow.Add(time.Hour)})

	s, err := m.Lookup(context.Background(), "s1")
	require.NoError(t, err)
	require.NoError(t, m.Renew(context.Background(), s))
	assert.Equal(t, testNow.Add(DefaultLifetime), s.ExpiresAt)

	err = m.Renew(context.Background(), &Session{ID: "missing"})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerInvalidateAndSweep(t *testing.T) {
	store := NewMemoryStore()
	m := newTestManager(store)
	ctx := context.Background()
	store.Put(Session{ID: "a", UserID: "u1", ExpiresAt: testNow.Add(time.Hour)})
	store.Put(Session{ID: "b", UserID: "u1", ExpiresAt: testNow.Add(time.Hour)})
	store.Put(Session{ID: "c", UserID: "u2", ExpiresAt: testNow.Add(-time.Hour)})
	store.Put(Session{ID: "d", UserID: "u2", ExpiresAt: testNow.Add(time.Hour)})

	require.NoError(t, m.Invalidate(ctx, "d"))
	_, err := store.Get(ctx, "d")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, m.InvalidateUser(ctx, "u1"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	n, err := m.Sweep(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
