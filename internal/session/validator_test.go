package session

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_NoCookie(t *testing.T) {
	v, fx := newFixture(nil, nil)

	res := v.Validate(context.Background(), "")

	assert.False(t, res.Outcome.Authenticated())
	assert.Nil(t, res.Outcome.User)
	assert.Nil(t, res.Outcome.Session)
	assert.Equal(t, MutationNone, res.Mutation.Kind)
	assert.Nil(t, res.Mutation.Cookie)
	assert.Equal(t, ReasonNoCredential, res.Reason)
	assert.Empty(t, fx.logs.String())
}

func TestValidate_ValidOutsideRenewalWindow(t *testing.T) {
	v, fx := newFixture(nil, nil)
	fx.store.Put(Session{ID: "sess_abc123", UserID: "user_42", ExpiresAt: testNow.Add(20 * 24 * time.Hour)})

	res := v.Validate(context.Background(), "sess_abc123")

	require.True(t, res.Outcome.Authenticated())
	assert.Equal(t, "user_42", res.Outcome.User.ID)
	assert.Equal(t, "sess_abc123", res.Outcome.Session.ID)
	assert.False(t, res.Outcome.Session.Fresh)
	assert.Equal(t, MutationNone, res.Mutation.Kind)
	assert.Equal(t, ReasonValid, res.Reason)

	stored, err := fx.store.Get(context.Background(), "sess_abc123")
	require.NoError(t, err)
	assert.Equal(t, testNow.Add(20*24*time.Hour), stored.ExpiresAt)
}

func TestValidate_FreshSessionIsRenewed(t *testing.T) {
	v, fx := newFixture(nil, nil)
	fx.store.Put(Session{ID: "sess_abc123", UserID: "user_42", ExpiresAt: testNow.Add(2 * time.Hour)})

	res := v.Validate(context.Background(), "sess_abc123")

	require.True(t, res.Outcome.Authenticated())
	assert.True(t, res.Outcome.Session.Fresh)
	assert.Equal(t, MutationSet, res.Mutation.Kind)
	require.NotNil(t, res.Mutation.Cookie)
	assert.Equal(t, DefaultCookieName, res.Mutation.Cookie.Name)
	assert.Equal(t, "sess_abc123", res.Mutation.Cookie.Value)
	assert.Equal(t, "sess_abc123", res.Outcome.Session.ID)

	want := testNow.Add(DefaultLifetime)
	assert.Equal(t, want, res.Outcome.Session.ExpiresAt)
	stored, err := fx.store.Get(context.Background(), "sess_abc123")
	require.NoError(t, err)
	assert.Equal(t, want, stored.ExpiresAt)
}

func TestValidate_RenewalThresholdBoundary(t *testing.T) {
	v, fx := newFixture(nil, nil)
	fx.store.Put(Session{ID: "at", UserID: "user_42", ExpiresAt: testNow.Add(DefaultRenewThreshold)})
	fx.store.Put(Session{ID: "under", UserID: "user_42", ExpiresAt: testNow.Add(DefaultRenewThreshold - time.Second)})

	assert.Equal(t, MutationNone, v.Validate(context.Background(), "at").Mutation.Kind)
	assert.Equal(t, MutationSet, v.Validate(context.Background(), "under").Mutation.Kind)
}

func TestValidate_UnknownSession(t *testing.T) {
	v, _ := newFixture(nil, nil)

	res := v.Validate(context.Background(), "sess_unknown")

	assert.False(t, res.Outcome.Authenticated())
	assert.Equal(t, MutationClear, res.Mutation.Kind)
	require.NotNil(t, res.Mutation.Cookie)
	assert.Equal(t, DefaultCookieName, res.Mutation.Cookie.Name)
	assert.Empty(t, res.Mutation.Cookie.Value)
	assert.Equal(t, -1, res.Mutation.Cookie.MaxAge)
	assert.Equal(t, ReasonInvalidCredential, res.Reason)
}

func TestValidate_ExpiredSession(t *testing.T) {
	for name, expiresAt := range map[string]time.Time{
		"past":       testNow.Add(-time.Minute),
		"exactlyNow": testNow,
	} {
		t.Run(name, func(t *testing.T) {
			v, fx := newFixture(nil, nil)
			fx.store.Put(Session{ID: "sess_old", UserID: "user_42", ExpiresAt: expiresAt})

			res := v.Validate(context.Background(), "sess_old")

			assert.False(t, res.Outcome.Authenticated())
			assert.Equal(t, MutationClear, res.Mutation.Kind)
			assert.Equal(t, ReasonExpiredCredential, res.Reason)

			_, err := fx.store.Get(context.Background(), "sess_old")
			assert.ErrorIs(t, err, ErrSessionNotFound)
		})
	}
}

func TestValidate_ExpiredSessionDeleteFailure(t *testing.T) {
	mem := NewMemoryStore()
	mem.Put(Session{ID: "sess_old", UserID: "user_42", ExpiresAt: testNow.Add(-time.Hour)})
	v, fx := newFixture(&failingStore{Store: mem, deleteErr: errBackend}, nil)

	res := v.Validate(context.Background(), "sess_old")

	assert.False(t, res.Outcome.Authenticated())
	assert.Equal(t, MutationClear, res.Mutation.Kind)
	assert.Contains(t, fx.logs.String(), "Failed to delete expired session")
}

func TestValidate_StoreUnavailable(t *testing.T) {
	v, fx := newFixture(&failingStore{Store: NewMemoryStore(), getErr: errBackend}, nil)

	res := v.Validate(context.Background(), "sess_abc123")

	assert.False(t, res.Outcome.Authenticated())
	assert.Equal(t, MutationNone, res.Mutation.Kind)
	assert.Nil(t, res.Mutation.Cookie)
	assert.Equal(t, ReasonStoreUnavailable, res.Reason)

	logs := fx.logs.String()
	assert.Equal(t, 1, strings.Count(logs, "level=ERROR"))
	assert.Contains(t, logs, "connection refused")
	assert.NotContains(t, logs, "sess_abc123")
}

func TestValidate_RenewalFailure(t *testing.T) {
	mem := NewMemoryStore()
	mem.Put(Session{ID: "sess_abc123", UserID: "user_42", ExpiresAt: testNow.Add(time.Hour)})
	v, fx := newFixture(&failingStore{Store: mem, extendErr: errBackend}, nil)

	res := v.Validate(context.Background(), "sess_abc123")

	assert.False(t, res.Outcome.Authenticated())
	assert.Equal(t, MutationNone, res.Mutation.Kind)
	assert.Equal(t, ReasonStoreUnavailable, res.Reason)
	assert.Contains(t, fx.logs.String(), "Session renewal failed")
}

func TestValidate_OrphanSession(t *testing.T) {
	counting := &countingStore{Store: NewMemoryStore()}
	v, fx := newFixture(counting, nil)
	counting.Store.(*MemoryStore).Put(Session{ID: "sess_orphan", UserID: "user_gone", ExpiresAt: testNow.Add(time.Hour)})

	res := v.Validate(context.Background(), "sess_orphan")

	assert.False(t, res.Outcome.Authenticated())
	assert.Equal(t, MutationClear, res.Mutation.Kind)
	assert.Equal(t, ReasonInvalidCredential, res.Reason)
	assert.Zero(t, counting.extends.Load())
	assert.Contains(t, fx.logs.String(), "Session owner not found")
}

func TestValidate_UserStoreError(t *testing.T) {
	v, fx := newFixture(nil, failingUserStore{err: errBackend})
	fx.store.Put(Session{ID: "sess_abc123", UserID: "user_42", ExpiresAt: testNow.Add(20 * 24 * time.Hour)})

	res := v.Validate(context.Background(), "sess_abc123")

	assert.False(t, res.Outcome.Authenticated())
	assert.Equal(t, MutationNone, res.Mutation.Kind)
	assert.Equal(t, ReasonStoreUnavailable, res.Reason)
}

func TestValidate_RenewalIsIdempotent(t *testing.T) {
	v, fx := newFixture(nil, nil)
	fx.store.Put(Session{ID: "sess_abc123", UserID: "user_42", ExpiresAt: testNow.Add(time.Hour)})

	first := v.Validate(context.Background(), "sess_abc123")
	second := v.Validate(context.Background(), "sess_abc123")

	assert.Equal(t, MutationSet, first.Mutation.Kind)
	assert.Equal(t, MutationNone, second.Mutation.Kind)
	assert.Equal(t, first.Outcome.Session.ExpiresAt, second.Outcome.Session.ExpiresAt)
}

func TestValidate_CookieAttributes(t *testing.T) {
	v, fx := newFixture(nil, nil)
	fx.store.Put(Session{ID: "sess_abc123", UserID: "user_42", ExpiresAt: testNow.Add(time.Hour)})

	ck := v.Validate(context.Background(), "sess_abc123").Mutation.Cookie
	require.NotNil(t, ck)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, "/", ck.Path)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.Zero(t, ck.MaxAge)
}
