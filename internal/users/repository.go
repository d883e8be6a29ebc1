package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"dashboard/internal/database"
	"dashboard/internal/session"
)

const emailConstraint = "users_email_key"

// Repository stores users in PostgreSQL. It also serves as the session
// layer's user store.
type Repository struct {
	db database.Querier
}

var _ session.UserStore = (*Repository)(nil)

// NewRepository creates a new user repository
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

const userColumns = `id, email, hashed_password, COALESCE(name, ''), created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.HashedPassword, &u.Name, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user with an already hashed password
func (r *Repository) Create(ctx context.Context, email, hashedPassword string) (*User, error) {
	now := time.Now().UTC()
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (id, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING `+userColumns,
		uuid.New().String(), email, hashedPassword, now,
	)

	u, err := scanUser(row)
	if err != nil {
		if database.IsUniqueViolation(err, emailConstraint) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// GetByID returns the user with the given id
func (r *Repository) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, err
}

// GetByEmail returns the user registered with email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, err
}

// GetUser implements session.UserStore
func (r *Repository) GetUser(ctx context.Context, id string) (*session.User, error) {
	u, err := r.GetByID(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, session.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u.Identity(), nil
}

// Update applies the non-nil fields of p
func (r *Repository) Update(ctx context.Context, id string, p UpdateParams) (*User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, p.Name, p.Email,
	)

	u, err := scanUser(row)
	if errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if err != nil {
		if database.IsUniqueViolation(err, emailConstraint) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return u, nil
}

// Delete removes a user. Sessions, folders and notes go with it.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
