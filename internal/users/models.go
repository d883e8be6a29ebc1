package users

import (
	"time"

	"dashboard/internal/session"
)

// User is a persisted account
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name,omitempty"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Identity returns the projection handed to the session layer
func (u *User) Identity() *session.User {
	return &session.User{ID: u.ID, Email: u.Email, Name: u.Name}
}

// UpdateParams carries optional account changes. Nil fields are left as is.
type UpdateParams struct {
	Name  *string
	Email *string
}

// Empty reports whether there is nothing to update
func (p UpdateParams) Empty() bool {
	return p.Name == nil && p.Email == nil
}
