// Package users manages accounts: registration, credential checks and
// profile updates.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserNotFound is returned when user is not found
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when email is already registered
	ErrEmailExists = errors.New("email already registered")
	// ErrInvalidCredentials is returned for any failed sign-in, whether the
	// email is unknown or the password is wrong
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Store is the persistence the service depends on
type Store interface {
	Create(ctx context.Context, email, hashedPassword string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id string, p UpdateParams) (*User, error)
}

// Service defines the account operations
type Service interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateAccount(ctx context.Context, id string, p UpdateParams) (*User, error)
}

type service struct {
	store Store
	cost  int
}

// NewService creates a new account service
func NewService(store Store) Service {
	return &service{store: store, cost: bcrypt.DefaultCost}
}

// NewServiceWithCost is NewService with a custom bcrypt cost, used by tests
func NewServiceWithCost(store Store, cost int) Service {
	return &service{store: store, cost: cost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp registers a new account
func (s *service) SignUp(ctx context.Context, email, password string) (*User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return s.store.Create(ctx, normalizeEmail(email), string(hashed))
}

// Authenticate checks credentials and returns the matching user
func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.store.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID returns the user with the given id
func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateAccount changes name and/or email
func (s *service) UpdateAccount(ctx context.Context, id string, p UpdateParams) (*User, error) {
	if p.Empty() {
		return s.store.GetByID(ctx, id)
	}
	if p.Email != nil {
		email := normalizeEmail(*p.Email)
		p.Email = &email
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
	return s.store.Update(ctx, id, p)
}
