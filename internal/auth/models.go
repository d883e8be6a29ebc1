package auth

import (
	"time"

	"dashboard/internal/session"
	"dashboard/internal/users"
)

// CredentialsRequest is the request payload for sign-up and sign-in
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email,min=5,max=31"`
	Password string `json:"password" binding:"required,min=4,max=15"`
}

// UpdateAccountRequest is the request payload for updating the current account
type UpdateAccountRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,min=3"`
	Email *string `json:"email,omitempty" binding:"omitempty,min=4"`
}

// SessionInfo is the public view of a session. The id travels only in the
// cookie.
type SessionInfo struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponse is the response after a successful sign-up or sign-in
type AuthResponse struct {
	User    *users.User  `json:"user"`
	Session *SessionInfo `json:"session"`
}

// MeResponse describes the current request's identity
type MeResponse struct {
	User    *session.User `json:"user"`
	Session *SessionInfo  `json:"session"`
}

func sessionInfo(s *session.Session) *SessionInfo {
	if s == nil {
		return nil
	}
	return &SessionInfo{ExpiresAt: s.ExpiresAt}
}
