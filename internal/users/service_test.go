package users

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryStore struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: map[string]*User{}}
}

func (m *memoryStore) Create(_ context.Context, email, hashed string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, ErrEmailExists
		}
	}
	u := &User{ID: uuid.New().String(), Email: email, HashedPassword: hashed, CreatedAt: time.Now()}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memoryStore) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memoryStore) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memoryStore) Update(_ context.Context, id string, p UpdateParams) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	cp := *u
	return &cp, nil
}

func newTestService() (Service, *memoryStore) {
	store := newMemoryStore()
	return NewServiceWithCost(store, bcrypt.MinCost), store
}

func TestSignUpHashesPassword(t *testing.T) {
	svc, store := newTestService()

	u, err := svc.SignUp(context.Background(), "  Ada@Example.com ", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.NotEqual(t, "hunter2", u.HashedPassword)

	stored, err := store.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("hunter2")))
}

func TestSignUpDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "ada@example.com", "hunter2")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "ADA@example.com", "other")
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "ada@example.com", "hunter2")
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "Ada@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateAccount(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.SignUp(ctx, "ada@example.com", "hunter2")
	require.NoError(t, err)

	name := " Ada Lovelace "
	u, err := svc.UpdateAccount(ctx, created.ID, UpdateParams{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)

	u, err = svc.UpdateAccount(ctx, created.ID, UpdateParams{})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.Name)

	_, err = svc.UpdateAccount(ctx, "missing", UpdateParams{Name: &name})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
